package entity

import "math"

// CentsFromDecimal converts a decimal amount to cents. Rounding happens only
// at this storage boundary, never mid-computation, so 27.54 maps to 2754
// rather than truncating to 2753.
func CentsFromDecimal(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// DecimalFromCents converts a stored cents amount back to a decimal.
func DecimalFromCents(cents int64) float64 {
	return float64(cents) / 100
}
