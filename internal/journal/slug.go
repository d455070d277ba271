package journal

import (
	"regexp"
	"strings"
)

// nonAlnumRegex matches one or more characters outside [a-z0-9].
var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a title, collapses every run of non-alphanumeric
// characters to a single hyphen, and trims leading/trailing hyphens.
// "My Journal! 2024" becomes "my-journal-2024".
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = nonAlnumRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
