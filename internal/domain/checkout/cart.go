// Package checkout holds the in-memory core of a point-of-sale checkout:
// the cart of line items, the step wizard that gates submission, payment
// sufficiency, and the immutable transaction draft built at the end.
// Nothing in this package performs I/O.
package checkout

import (
	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
)

// LineItem is one (product, quantity) pair in a cart. The product is a
// snapshot taken when the item was first added.
type LineItem struct {
	Product  entity.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Cart is the ordered list of line items for one in-progress sale.
// Items are unique by product ID; list order reflects first-add order.
type Cart struct {
	Items []LineItem `json:"items"`
}

// AddItem adds one unit of the product. If a line for the product already
// exists its quantity is incremented in place, preserving list order.
// Stock is not checked here; it is advisory until submission.
func (c *Cart) AddItem(product entity.Product) {
	for i := range c.Items {
		if c.Items[i].Product.ID == product.ID {
			c.Items[i].Quantity++
			return
		}
	}
	c.Items = append(c.Items, LineItem{Product: product, Quantity: 1})
}

// UpdateQuantity sets the quantity for a product's line. A quantity of zero
// or less removes the line. Unknown product IDs are a no-op.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem removes the line for the product. No-op if absent.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalUnits returns the total number of units across all lines.
func (c *Cart) TotalUnits() int {
	var n int
	for i := range c.Items {
		n += c.Items[i].Quantity
	}
	return n
}

// Subtotal is the sum of price x quantity over all lines. Plain float math;
// rounding happens only at display or storage boundaries.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for i := range c.Items {
		sum += c.Items[i].Product.PriceDecimal() * float64(c.Items[i].Quantity)
	}
	return sum
}

// Tax returns subtotal x rate. The rate always comes from store settings.
func (c *Cart) Tax(rate float64) float64 {
	return c.Subtotal() * rate
}

// Total returns subtotal plus tax. An empty cart totals exactly zero.
func (c *Cart) Total(rate float64) float64 {
	return c.Subtotal() + c.Tax(rate)
}
