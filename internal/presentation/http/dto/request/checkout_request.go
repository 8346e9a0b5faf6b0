package request

import "github.com/google/uuid"

// AddItemRequest adds a product to the cart either by ID or by its SKU.
// Exactly one of the two must be set; SKU covers the barcode-scan path.
type AddItemRequest struct {
	ProductID *uuid.UUID `json:"product_id"`
	SKU       string     `json:"sku"`
}

// UpdateQuantityRequest sets the cart quantity for a product. Zero removes
// the line.
type UpdateQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"min=0"`
}

// SetCustomerRequest attaches a customer to the session. A null customer_id
// detaches the current one for a walk-in sale.
type SetCustomerRequest struct {
	CustomerID *uuid.UUID `json:"customer_id"`
}

// SetPaymentMethodRequest selects the payment method for the sale.
type SetPaymentMethodRequest struct {
	Method string `json:"method" binding:"required,oneof=cash card digital"`
}

// SetTenderedRequest records the raw tendered-amount field as typed by the
// cashier. It is parsed at submit time, not here.
type SetTenderedRequest struct {
	Tendered string `json:"tendered"`
}

// SetSearchRequest stores the product search term on the session so a
// reconnecting terminal restores it.
type SetSearchRequest struct {
	Search string `json:"search"`
}
