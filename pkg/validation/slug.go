package validation

import (
	"strings"
	"unicode"
)

// Slugify lowercases s, keeps ASCII letters and digits, and joins words with
// single hyphens: "Wireless Earbuds (White)" -> "wireless-earbuds-white".
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '\'' || r == '"':
			// apostrophes join: "men's" -> "mens"
		default:
			pendingDash = true
		}
	}
	return b.String()
}
