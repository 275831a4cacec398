package formatter

import (
	"strings"
	"unicode"
)

// Slugify lowercases name and collapses every run of other characters than letters and digits into one "-".
func Slugify(name string) string {
	var b strings.Builder
	pending := false

	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}

	if b.Len() == 0 {
		return "playlist"
	}
	return b.String()
}
