// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/gold-scheme/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// NonNegative clamps val at zero from below.
func NonNegative(val float64) float64 {
	return Max(0, val)
}

// PercentToRate converts a percentage such as 18 into the rate 0.18.
func PercentToRate(percentage float64) float64 {
	return percentage / constants.PercentageMultiplier
}

// RateToPercent converts a rate such as 0.12 into the percentage 12.
func RateToPercent(rate float64) float64 {
	return rate * constants.PercentageMultiplier
}
