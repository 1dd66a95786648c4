package utils

import (
	"strings"
	"unicode"
)

// Slugify normalizes a company name into its URL-safe slug: lowercase ASCII
// letters and digits, runs of anything else collapsed to single dashes.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) && r < unicode.MaxASCII, unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
