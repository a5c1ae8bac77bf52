package markdown

import (
	"strings"
	"unicode"
)

// Slugify converts a title to a URL-friendly slug.
func Slugify(title string) string {
	var buf strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && buf.Len() > 0 {
				buf.WriteByte('-')
			}
			dash = false
			buf.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			dash = true
		}
	}
	return buf.String()
}
