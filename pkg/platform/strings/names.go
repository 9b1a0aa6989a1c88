// Package strings provides name normalisation helpers shared by the screening
// components.
package strings

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName folds an entity name into the form used for comparisons:
// NFKC, control characters removed, whitespace collapsed, lower-cased.
// Blank input yields "".
//
// Example:
//
//	NormalizeName("  ACME\tHoldings  Ltd ")
//	// Returns: "acme holdings ltd"
func NormalizeName(name string) string {
	normed := norm.NFKC.String(name)
	normed = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, normed)
	return strings.ToLower(strings.Join(strings.Fields(normed), " "))
}

// IsBlank reports whether a name carries no matchable characters.
func IsBlank(name string) bool {
	return NormalizeName(name) == ""
}

// DedupeNames removes blank entries and duplicates from a slice of names,
// trimming whitespace from each element. Two names are duplicates when their
// NormalizeName forms are equal; the first spelling wins. Order is preserved.
//
// Example:
//
//	DedupeNames([]string{"  Acme ", "ACME", "", "Globex"})
//	// Returns: []string{"Acme", "Globex"}
func DedupeNames(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		key := NormalizeName(trimmed)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}
