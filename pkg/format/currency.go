// Package format renders amounts and weights for display.
package format

import (
	"github.com/iwvelando/gold-scheme/pkg/constants"
	"github.com/iwvelando/gold-scheme/pkg/mathutil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// RupeeSymbol prefixes formatted currency.
const RupeeSymbol = "₹"

var indianPrinter = message.NewPrinter(language.MustParse("en-IN"))

// Currency returns a rupee string with Indian digit grouping (e.g., "-₹1,23,456.78").
// Non-finite amounts render as zero.
func Currency(amount float64) string {
	sign, digits := split(amount, constants.CurrencyPlaces)
	return sign + RupeeSymbol + digits
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,23,456.78").
func NumericCurrency(amount float64) string {
	sign, digits := split(amount, constants.CurrencyPlaces)
	return sign + digits
}

// Number formats value with Indian grouping and the given number of decimals.
func Number(value float64, places int32) string {
	sign, digits := split(value, places)
	return sign + digits
}

// Grams formats a gold weight to milligram precision (e.g., "6.094 g").
func Grams(weight float64) string {
	return Number(weight, constants.GramPlaces) + " g"
}

// Percentage formats a percentage value (e.g., 18 -> "18.00%").
func Percentage(percentage float64) string {
	return Number(percentage, constants.CurrencyPlaces) + "%"
}

// Rate formats a rate as a percentage (e.g., 0.09 -> "9.00%").
func Rate(rate float64) string {
	return Percentage(mathutil.RateToPercent(rate))
}

// split rounds half away from zero in decimal so float artefacts such as
// 12896.800000000003 or 1.005 round the way a person would expect, then lets
// the en-IN printer place the lakh and crore separators.
func split(value float64, places int32) (string, string) {
	if !mathutil.IsFinite(value) {
		value = 0
	}
	d := decimal.NewFromFloat(value).Round(places)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	digits := indianPrinter.Sprintf("%v", number.Decimal(d.InexactFloat64(),
		number.MinFractionDigits(int(places)),
		number.MaxFractionDigits(int(places)),
	))
	return sign, digits
}
