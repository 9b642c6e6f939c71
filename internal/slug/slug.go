// Package slug turns movie titles into URL path segments.
package slug

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Create lower-cases title, drops everything except ASCII letters, digits,
// whitespace, underscores and hyphens, and joins the remaining words with
// single hyphens. The result never starts or ends with a hyphen and may be
// empty for titles made only of symbols.
func Create(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	sep := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
		case r == '_' || r == '-' || unicode.IsSpace(r):
			sep = true
		}
	}
	return b.String()
}
