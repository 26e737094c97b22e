// Package format renders the derived quantities for display. Formatting
// is locale-driven; unparseable locales fall back to de-DE.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is used when the profile carries none.
const DefaultLocale = "de-DE"

func printer(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return message.NewPrinter(tag)
}

// Currency renders a EUR amount with two fraction digits.
func Currency(v float64, locale string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	v = math.Round(v*100) / 100
	return printer(locale).Sprintf("%v", currency.Symbol(currency.EUR.Amount(v)))
}

// Grams renders a gram value: three fraction digits below one gram,
// where relative error matters most, one digit above.
func Grams(v float64, locale string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	digits := 1
	if v < 1 {
		digits = 3
	}
	return decimal(v, digits, locale)
}

// Joints renders a joint count: one fraction digit below ten, whole
// joints above.
func Joints(v float64, locale string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	digits := 0
	if v < 10 {
		digits = 1
	}
	return decimal(v, digits, locale)
}

// Minutes renders a minute count as zero-padded HH:MM, floored to whole
// minutes.
func Minutes(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		v = 0
	}
	total := int(math.Floor(v))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func decimal(v float64, digits int, locale string) string {
	f := number.Decimal(v,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
	)
	return printer(locale).Sprintf("%v", f)
}

// ProgressModulo reports the fractional progress of current toward the
// next step boundary, in [0,1]. The double modulo keeps negative inputs
// in range; a non-positive or non-finite step yields 0.
func ProgressModulo(current, step float64) float64 {
	if math.IsNaN(current) || math.IsInf(current, 0) {
		return 0
	}
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 0 {
		return 0
	}
	frac := math.Mod(math.Mod(current, step)+step, step) / step
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}
