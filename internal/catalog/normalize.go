package catalog

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleCaser   = cases.Title(language.Und)
	invalidChars = regexp.MustCompile(`[^\w\s\-()]+`)
)

// NormalizeName applies the catalog's naming rules: collapse whitespace,
// title-case, and strip special characters except spaces, hyphens, and
// parentheses.
func NormalizeName(name string) string {
	if name == "" {
		return name
	}
	name = strings.Join(strings.Fields(name), " ")
	name = titleCaser.String(name)
	name = invalidChars.ReplaceAllString(name, "")
	return strings.TrimSpace(strings.Join(strings.Fields(name), " "))
}
