package normalize

import (
	"regexp"
	"strings"
)

var (
	parenRe      = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Name strips parenthesized suffixes that vault imports tack onto entry
// names ("Facebook (imported 2021)" -> "Facebook") and collapses leftover
// whitespace. It affects display and output only, never duplicate keys.
func Name(s string) string {
	if !strings.Contains(s, "(") {
		return s
	}
	cleaned := parenRe.ReplaceAllString(s, " ")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
