package checkout

import "strconv"

// PaymentResult is the outcome of comparing an amount tendered against the
// total owed. Exactly one of Change/Due is non-zero (both zero on exact
// payment).
type PaymentResult struct {
	Sufficient bool    `json:"sufficient"`
	Change     float64 `json:"change"`
	Due        float64 `json:"due"`
}

// ValidatePayment compares the tendered amount against the total. When
// sufficient the positive delta is change; otherwise the shortfall is
// reported as the outstanding due amount. All payment methods share this
// check; card and digital are validated exactly like cash.
func ValidatePayment(amountPaid, total float64) PaymentResult {
	delta := amountPaid - total
	if delta >= 0 {
		return PaymentResult{Sufficient: true, Change: delta}
	}
	return PaymentResult{Sufficient: false, Due: -delta}
}

// ParseTendered parses the raw amount-tendered input. An empty, unparseable,
// or zero entry falls back to the exact total, i.e. a blank field is treated
// as paid-in-full rather than zero. This mirrors the register's historical
// behavior and is deliberately confined to this single function; changing
// the policy means changing one place.
func ParseTendered(raw string, total float64) float64 {
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil || amount == 0 {
		return total
	}
	return amount
}
