package screening

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestEntityType(t *testing.T) {
	tests := []struct {
		name    string
		ev      EntityEvidence
		guessed []string
		i       int
		want    string
	}{
		{"registry wins", EntityEvidence{RegistryType: "LLC"}, []string{"Individual"}, 0, "LLC"},
		{"generator guess", EntityEvidence{}, []string{"NGO", " Individual "}, 1, "Individual"},
		{"blank guess", EntityEvidence{}, []string{"  "}, 0, UnknownEntityType},
		{"no guess", EntityEvidence{}, nil, 1, UnknownEntityType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entityType(tt.ev, tt.guessed, tt.i))
		})
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc", truncate("abcdef", 3))

	// "é" is two bytes; cutting at 2 would split it.
	got := truncate("aé€", 2)
	assert.Equal(t, "a", got)
	assert.True(t, utf8.ValidString(got))

	got = truncate("€€", 4)
	assert.Equal(t, "€", got)
	assert.True(t, utf8.ValidString(truncate("日本語テキスト", 7)))
}
