package validation

import (
	"regexp"
	"strings"
)

// Nigerian mobile numbers: +234, 234 or 0 followed by 7/8/9, then 0/1, then 8 digits.
var phonePattern = regexp.MustCompile(`^(\+234|234|0)[789][01]\d{8}$`)

var phoneNoise = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

func ValidPhone(s string) bool {
	return phonePattern.MatchString(phoneNoise.Replace(strings.TrimSpace(s)))
}

// NormalizePhone rewrites a valid number into +234XXXXXXXXXX form.
func NormalizePhone(s string) string {
	cleaned := phoneNoise.Replace(strings.TrimSpace(s))
	cleaned = strings.TrimPrefix(cleaned, "+")
	if strings.HasPrefix(cleaned, "0") {
		cleaned = "234" + cleaned[1:]
	}
	if !strings.HasPrefix(cleaned, "234") {
		cleaned = "234" + cleaned
	}
	return "+" + cleaned
}
