// Package intake turns tabular transaction files into pipeline rows.
package intake

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"riskscreen/internal/screening"
)

// Column headers, matched case-insensitively.
const (
	ColumnID              = "Transaction ID"
	ColumnPayerName       = "Payer Name"
	ColumnPayerCountry    = "Payer Country"
	ColumnReceiverName    = "Receiver Name"
	ColumnReceiverCountry = "Receiver Country"
	ColumnDetails         = "Transaction Details"
	ColumnAmount          = "Amount"
	ColumnRemarks         = "Remarks"
)

// ErrMalformed rejects a whole file. No partial batch is returned.
var ErrMalformed = errors.New("malformed transaction file")

var requiredColumns = []string{ColumnID, ColumnPayerName, ColumnReceiverName}

var amountCleaner = strings.NewReplacer("$", "", ",", "", " ", "")

// ReadFile decodes the CSV file at path.
func ReadFile(path string) ([]screening.TransactionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transactions: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV decodes a header-driven CSV of transactions. Unknown columns are
// ignored; missing optional columns decode as empty values. Blank lines are
// skipped.
func ReadCSV(r io.Reader) ([]screening.TransactionRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	index := headerIndex(header)
	for _, col := range requiredColumns {
		if _, ok := index[strings.ToLower(col)]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformed, col)
		}
	}

	var rows []screening.TransactionRecord
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		line, _ := reader.FieldPos(0)
		get := func(col string) string {
			idx, ok := index[strings.ToLower(col)]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		amount, err := parseAmount(get(ColumnAmount))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
		}
		rows = append(rows, screening.TransactionRecord{
			ID:              get(ColumnID),
			PayerName:       get(ColumnPayerName),
			PayerCountry:    get(ColumnPayerCountry),
			ReceiverName:    get(ColumnReceiverName),
			ReceiverCountry: get(ColumnReceiverCountry),
			Details:         get(ColumnDetails),
			Amount:          amount,
			Remarks:         get(ColumnRemarks),
		})
	}
	return rows, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	return index
}

// parseAmount accepts "$1,250.00" style values. Blank means zero.
func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := amountCleaner.Replace(raw)
	if cleaned == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", raw, err)
	}
	return d, nil
}
