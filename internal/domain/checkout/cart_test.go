package checkout

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
)

const tolerance = 1e-9

func testProduct(t *testing.T, name string, price float64) entity.Product {
	t.Helper()
	p := entity.Product{ID: uuid.New(), Name: name, SKU: "SKU-" + name}
	p.SetPriceFromDecimal(price)
	return p
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	var cart Cart
	p := testProduct(t, "soda", 1.50)

	cart.AddItem(p)
	cart.AddItem(p)

	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", cart.Items[0].Quantity)
	}
}

func TestAddItemPreservesFirstAddOrder(t *testing.T) {
	var cart Cart
	a := testProduct(t, "a", 1.00)
	b := testProduct(t, "b", 2.00)

	cart.AddItem(a)
	cart.AddItem(b)
	cart.AddItem(a) // re-add must not reorder

	if cart.Items[0].Product.ID != a.ID || cart.Items[1].Product.ID != b.ID {
		t.Fatalf("list order changed on repeated add")
	}
}

func TestUpdateQuantityFloor(t *testing.T) {
	for _, qty := range []int{0, -1} {
		var cart Cart
		p := testProduct(t, "gum", 0.99)
		cart.AddItem(p)

		cart.UpdateQuantity(p.ID, qty)

		if len(cart.Items) != 0 {
			t.Fatalf("quantity %d: expected line removed, got %d items", qty, len(cart.Items))
		}
	}
}

func TestUpdateQuantitySetsValue(t *testing.T) {
	var cart Cart
	p := testProduct(t, "gum", 0.99)
	cart.AddItem(p)

	cart.UpdateQuantity(p.ID, 7)

	if cart.Items[0].Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", cart.Items[0].Quantity)
	}
}

func TestUpdateQuantityUnknownProductIsNoop(t *testing.T) {
	var cart Cart
	p := testProduct(t, "gum", 0.99)
	cart.AddItem(p)

	cart.UpdateQuantity(uuid.New(), 5)

	if len(cart.Items) != 1 || cart.Items[0].Quantity != 1 {
		t.Fatalf("cart mutated by update for absent product")
	}
}

func TestRemoveItem(t *testing.T) {
	var cart Cart
	a := testProduct(t, "a", 1.00)
	b := testProduct(t, "b", 2.00)
	cart.AddItem(a)
	cart.AddItem(b)

	cart.RemoveItem(a.ID)

	if len(cart.Items) != 1 || cart.Items[0].Product.ID != b.ID {
		t.Fatalf("expected only %s to remain", b.Name)
	}

	// removing an absent product is a no-op
	cart.RemoveItem(a.ID)
	if len(cart.Items) != 1 {
		t.Fatalf("remove of absent product mutated cart")
	}
}

func TestTotalsAdditivity(t *testing.T) {
	var cart Cart
	prices := []float64{10.00, 5.50, 0.33}
	quantities := []int{2, 1, 3}

	var want float64
	for i, price := range prices {
		p := testProduct(t, "p", price)
		cart.AddItem(p)
		cart.UpdateQuantity(p.ID, quantities[i])
		want += price * float64(quantities[i])
	}

	if !almostEqual(cart.Subtotal(), want) {
		t.Fatalf("subtotal = %v, want %v", cart.Subtotal(), want)
	}
	rate := 0.08
	if !almostEqual(cart.Total(rate), cart.Subtotal()+cart.Tax(rate)) {
		t.Fatalf("total != subtotal + tax")
	}
}

func TestEmptyCartIdentity(t *testing.T) {
	var cart Cart

	if cart.Subtotal() != 0 {
		t.Fatalf("empty subtotal = %v, want 0", cart.Subtotal())
	}
	if cart.Tax(0.08) != 0 {
		t.Fatalf("empty tax = %v, want 0", cart.Tax(0.08))
	}
	if got := cart.Total(0.08); got != 0 || math.IsNaN(got) {
		t.Fatalf("empty total = %v, want exactly 0", got)
	}
}

func TestClear(t *testing.T) {
	var cart Cart
	cart.AddItem(testProduct(t, "a", 1.00))
	cart.AddItem(testProduct(t, "b", 2.00))

	cart.Clear()

	if !cart.IsEmpty() || cart.TotalUnits() != 0 {
		t.Fatalf("clear left items behind")
	}
}
