package countryname

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var articlePrefix = regexp.MustCompile(`(?i)^(?:the\s+)+`)

// Normalize canonicalizes a country name so that the same country spelled
// differently across sources becomes one join key:
//
//	"  The netherlands " -> "Netherlands"
//
// Normalize is idempotent.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	name = articlePrefix.ReplaceAllString(name, "")
	name = cases.Title(language.Und).String(name)
	return strings.TrimSpace(name)
}
