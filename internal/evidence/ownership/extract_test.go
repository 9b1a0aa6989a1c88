package ownership

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractGroupMembers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "sgml header declarations",
			text: "<SEC-HEADER>\nACCESSION NUMBER:\t\t0000950123-24-001234\nGROUP MEMBERS:\t\tBLACKROCK FUND ADVISORS\nGROUP MEMBERS:\t\tBLACKROCK INSTITUTIONAL TRUST CO\nSUBJECT COMPANY:\n",
			want: []string{"BLACKROCK FUND ADVISORS", "BLACKROCK INSTITUTIONAL TRUST CO"},
		},
		{
			name: "crlf line endings",
			text: "GROUP MEMBERS:  ALPHA CAPITAL LP\r\nGROUP MEMBERS:  ALPHA GP LLC\r\n",
			want: []string{"ALPHA CAPITAL LP", "ALPHA GP LLC"},
		},
		{
			name: "caps at five in document order",
			text: "GROUP MEMBERS: A\nGROUP MEMBERS: B\nGROUP MEMBERS: C\nGROUP MEMBERS: D\nGROUP MEMBERS: E\nGROUP MEMBERS: F\n",
			want: []string{"A", "B", "C", "D", "E"},
		},
		{
			name: "repeats dropped before capping",
			text: "GROUP MEMBERS: A\nGROUP MEMBERS: a\nGROUP MEMBERS: B\n",
			want: []string{"A", "B"},
		},
		{
			name: "no declarations",
			text: "FILER:\n\tCOMPANY DATA:\n\t\tCOMPANY CONFORMED NAME: ACME CORP\n",
			want: []string{},
		},
		{
			name: "lowercase label is not a declaration",
			text: "group members: someone\n",
			want: []string{},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractGroupMembers(tt.text)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), MaxMembers)
		})
	}
}
