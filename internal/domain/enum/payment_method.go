package enum

// PaymentMethod represents how a transaction was paid for. Stored as a
// string so the database stays readable; all methods share the same
// sufficiency check at checkout.
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodDigital PaymentMethod = "digital"
)

// Valid reports whether the value is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodDigital:
		return true
	}
	return false
}

func (m PaymentMethod) String() string {
	return string(m)
}
