// Package money formats integer minor-unit amounts for display.
package money

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format renders minor units (kobo) with thousands separators:
// Format(1250000, "₦") == "₦12,500", Format(1250050, "₦") == "₦12,500.50".
func Format(minor int64, symbol string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	major, rem := minor/100, minor%100
	if rem == 0 {
		return sign + symbol + printer.Sprintf("%d", major)
	}
	return sign + symbol + printer.Sprintf("%d", major) + fmt.Sprintf(".%02d", rem)
}
