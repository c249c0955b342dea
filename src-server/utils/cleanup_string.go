package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize a manually entered label: collapse inner whitespace, strip
// surrounding spaces, title-case, remove trailing period. Only applied to
// the structured create/update paths, never to extracted titles.
func CleanupString(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = cases.Title(language.English).String(s)
	s = strings.TrimSuffix(s, ".")
	return s
}
