package sanctions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	euNameColumn     = "NameAlias_WholeName"
	icijNameColumn   = "name"
	icijSourceColumn = "sourceID"
	// OFAC SDN exports carry the entity name in the second column.
	ofacNameIndex = 1
)

// Paths locates the three list files.
type Paths struct {
	OFAC string
	EU   string
	ICIJ string
}

// LoadLists reads all three lists. Any missing file or missing required
// column is an error: a malformed table must abort startup.
func LoadLists(paths Paths) (Lists, error) {
	var lists Lists
	var err error

	if lists.OFAC, err = readFile(paths.OFAC, ReadOFAC); err != nil {
		return Lists{}, fmt.Errorf("load OFAC list: %w", err)
	}
	if lists.EU, err = readFile(paths.EU, ReadEU); err != nil {
		return Lists{}, fmt.Errorf("load EU list: %w", err)
	}
	if lists.ICIJ, err = readFile(paths.ICIJ, ReadICIJ); err != nil {
		return Lists{}, fmt.Errorf("load ICIJ list: %w", err)
	}
	return lists, nil
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	return read(f)
}

// ReadOFAC reads the flat name list: header row skipped, names in column 2.
func ReadOFAC(r io.Reader) ([]string, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}
	names := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) > ofacNameIndex {
			names = append(names, row[ofacNameIndex])
		}
	}
	return names, nil
}

// ReadEU reads the alias list from the NameAlias_WholeName column.
func ReadEU(r io.Reader) ([]string, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	idx, err := columns(rows, euNameColumn)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		names = append(names, cell(row, idx[0]))
	}
	return names, nil
}

// ReadICIJ reads the leaks list from the name and sourceID columns.
func ReadICIJ(r io.Reader) ([]LeakEntry, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	idx, err := columns(rows, icijNameColumn, icijSourceColumn)
	if err != nil {
		return nil, err
	}
	entries := make([]LeakEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		entries = append(entries, LeakEntry{Name: cell(row, idx[0]), SourceID: cell(row, idx[1])})
	}
	return entries, nil
}

func readAll(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

// columns resolves header names to indexes.
func columns(rows [][]string, names ...string) ([]int, error) {
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}
	header := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		header[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	out := make([]int, len(names))
	for i, name := range names {
		idx, ok := header[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
		out[i] = idx
	}
	return out, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
