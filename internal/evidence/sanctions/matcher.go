// Package sanctions screens entity names against the static sanctions and
// leaks lists.
package sanctions

import (
	"strings"

	pstrings "riskscreen/pkg/platform/strings"
)

// List identifies which static list produced a match.
type List string

const (
	ListOFAC List = "OFAC"
	ListEU   List = "EU"
	ListICIJ List = "ICIJ"
)

// Match is a positive screening result.
type Match struct {
	List List `json:"list"`
	// Reference is the leak-source identifier for ICIJ matches.
	Reference string `json:"reference,omitempty"`
}

// Label is the evidence-source label reported for the match.
func (m Match) Label() string {
	if m.List == ListICIJ {
		if m.Reference == "" {
			return "ICIJ Offshore Leaks"
		}
		return "ICIJ Offshore Leaks (" + m.Reference + ")"
	}
	return string(m.List)
}

// LeakEntry is one row of the leaks list.
type LeakEntry struct {
	Name     string
	SourceID string
}

// Lists is the raw content of the three static lists.
type Lists struct {
	OFAC []string
	EU   []string
	ICIJ []LeakEntry
}

type leak struct {
	name     string
	sourceID string
}

// Matcher is immutable after construction and safe for concurrent use.
type Matcher struct {
	ofac []string
	eu   []string
	icij []leak
}

// NewMatcher normalizes the lists once. Blank entries are dropped so a missing
// name field can never match.
func NewMatcher(lists Lists) *Matcher {
	m := &Matcher{
		ofac: normalizeAll(lists.OFAC),
		eu:   normalizeAll(lists.EU),
		icij: make([]leak, 0, len(lists.ICIJ)),
	}
	for _, entry := range lists.ICIJ {
		if name := pstrings.NormalizeName(entry.Name); name != "" {
			m.icij = append(m.icij, leak{name: name, sourceID: strings.TrimSpace(entry.SourceID)})
		}
	}
	return m
}

// Match reports the first list, in priority order OFAC, EU, ICIJ, holding an
// entry that contains name (case-insensitive). Blank names never match.
func (m *Matcher) Match(name string) (Match, bool) {
	query := pstrings.NormalizeName(name)
	if query == "" {
		return Match{}, false
	}
	if containsAny(m.ofac, query) {
		return Match{List: ListOFAC}, true
	}
	if containsAny(m.eu, query) {
		return Match{List: ListEU}, true
	}
	for _, entry := range m.icij {
		if strings.Contains(entry.name, query) {
			return Match{List: ListICIJ, Reference: entry.sourceID}, true
		}
	}
	return Match{}, false
}

// Size returns the number of usable entries per list.
func (m *Matcher) Size() (ofac, eu, icij int) {
	return len(m.ofac), len(m.eu), len(m.icij)
}

func containsAny(entries []string, query string) bool {
	for _, entry := range entries {
		if strings.Contains(entry, query) {
			return true
		}
	}
	return false
}

func normalizeAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if normed := pstrings.NormalizeName(n); normed != "" {
			out = append(out, normed)
		}
	}
	return out
}
