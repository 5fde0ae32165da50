package utils

import (
	"fmt"
	"math"
)

// Round3 rounds to 3 decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to 1 decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// SafeDivide divides numerator by denominator, returning def when the
// denominator is zero or either operand is not finite.
func SafeDivide(numerator, denominator, def float64) float64 {
	if denominator == 0 || math.IsNaN(numerator) || math.IsNaN(denominator) ||
		math.IsInf(numerator, 0) || math.IsInf(denominator, 0) {
		return def
	}
	return numerator / denominator
}

// FormatCurrency formats a USD value with a T/B/M/K suffix, e.g. $1.5B.
// Zero and non-finite values render as N/A.
func FormatCurrency(value float64, precision int) string {
	if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return "N/A"
	}

	abs := math.Abs(value)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("$%.*fT", precision, value/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("$%.*fB", precision, value/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.*fM", precision, value/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.*fK", precision, value/1e3)
	default:
		return fmt.Sprintf("$%.2f", value)
	}
}

// FormatPercentage formats a percentage value, e.g. 42.5%.
func FormatPercentage(value float64, precision int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "N/A"
	}
	return fmt.Sprintf("%.*f%%", precision, value)
}

// FormatRatio formats a ratio value, e.g. 1.35.
func FormatRatio(value float64, precision int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "N/A"
	}
	return fmt.Sprintf("%.*f", precision, value)
}
