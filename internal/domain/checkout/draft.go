package checkout

import (
	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/enum"
)

// DraftItem is one cart line flattened for persistence.
type DraftItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}

// Draft is the transaction-creation payload assembled from a finished
// session. It is a derived snapshot: building it never mutates the cart,
// and a failed persistence attempt discards only the draft.
type Draft struct {
	Items         []DraftItem        `json:"items"`
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	AmountPaid    float64            `json:"amount_paid"`
	Discount      float64            `json:"discount"`
	SubTotal      float64            `json:"sub_total"`
	Tax           float64            `json:"tax"`
	Total         float64            `json:"total"`
	Payment       PaymentResult      `json:"payment"`
}

// BuildDraft snapshots the session into a Draft using the store's tax rate.
// The tendered amount is parsed with the paid-in-full fallback and compared
// against the total; the resulting change/due split rides along so the
// persistence layer never recomputes it. An empty cart is a guarded error.
func (s *Session) BuildDraft(taxRate float64) (*Draft, error) {
	if s.Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	items := make([]DraftItem, len(s.Cart.Items))
	for i, line := range s.Cart.Items {
		items[i] = DraftItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.PriceDecimal(),
		}
	}

	subTotal := s.Cart.Subtotal()
	tax := s.Cart.Tax(taxRate)
	total := s.Cart.Total(taxRate)
	amountPaid := ParseTendered(s.Tendered, total)

	var customerID *uuid.UUID
	if s.CustomerID != nil {
		id := *s.CustomerID
		customerID = &id
	}

	return &Draft{
		Items:         items,
		CustomerID:    customerID,
		PaymentMethod: s.PaymentMethod,
		AmountPaid:    amountPaid,
		Discount:      0,
		SubTotal:      subTotal,
		Tax:           tax,
		Total:         total,
		Payment:       ValidatePayment(amountPaid, total),
	}, nil
}
