package ownership

import (
	"regexp"
	"strings"

	pstrings "riskscreen/pkg/platform/strings"
)

// MaxMembers bounds how many group members are taken from one filing.
const MaxMembers = 5

// groupMemberPattern matches the SGML header declaration of a filing group
// member: "GROUP MEMBERS:" followed by whitespace and the name up to end of line.
var groupMemberPattern = regexp.MustCompile(`GROUP MEMBERS:\s+(.*)`)

// ExtractGroupMembers returns the declared group members of a filing in
// document order. Names are trimmed; blanks and repeats are dropped; at most
// MaxMembers are returned. Text without declarations yields an empty slice.
func ExtractGroupMembers(text string) []string {
	matches := groupMemberPattern.FindAllStringSubmatch(text, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSpace(m[1]))
	}
	names = pstrings.DedupeNames(names)
	if len(names) > MaxMembers {
		names = names[:MaxMembers]
	}
	return names
}
