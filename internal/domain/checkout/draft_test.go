package checkout

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/enum"
)

// Full scenario from an open register to a draft: two units at 10.00 plus
// one at 5.50, 8% tax, 30.00 tendered.
func TestBuildDraftRoundTrip(t *testing.T) {
	s := NewSession(uuid.New(), uuid.New())
	a := testProduct(t, "widget", 10.00)
	b := testProduct(t, "gadget", 5.50)
	s.Cart.AddItem(a)
	s.Cart.AddItem(a)
	s.Cart.AddItem(b)
	s.Tendered = "30.00"
	s.PaymentMethod = enum.PaymentMethodCash

	draft, err := s.BuildDraft(0.08)
	if err != nil {
		t.Fatalf("build draft: %v", err)
	}

	if !almostEqual(draft.SubTotal, 25.50) {
		t.Fatalf("subtotal = %v, want 25.50", draft.SubTotal)
	}
	if !almostEqual(draft.Tax, 2.04) {
		t.Fatalf("tax = %v, want 2.04", draft.Tax)
	}
	if !almostEqual(draft.Total, 27.54) {
		t.Fatalf("total = %v, want 27.54", draft.Total)
	}
	if !draft.Payment.Sufficient || !almostEqual(draft.Payment.Change, 2.46) {
		t.Fatalf("payment = %+v, want sufficient with change 2.46", draft.Payment)
	}

	if len(draft.Items) != 2 {
		t.Fatalf("expected 2 draft items, got %d", len(draft.Items))
	}
	if draft.Items[0].ProductID != a.ID || draft.Items[0].Quantity != 2 {
		t.Fatalf("first item = %+v, want product %s qty 2", draft.Items[0], a.ID)
	}
	if draft.Items[1].ProductID != b.ID || draft.Items[1].Quantity != 1 {
		t.Fatalf("second item = %+v, want product %s qty 1", draft.Items[1], b.ID)
	}
	if draft.Discount != 0 {
		t.Fatalf("discount = %v, want 0", draft.Discount)
	}
}

func TestBuildDraftEmptyCart(t *testing.T) {
	s := NewSession(uuid.New(), uuid.New())
	if _, err := s.BuildDraft(0.08); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestBuildDraftDoesNotMutateCart(t *testing.T) {
	s := NewSession(uuid.New(), uuid.New())
	p := testProduct(t, "widget", 10.00)
	s.Cart.AddItem(p)
	s.Cart.AddItem(p)

	draft, err := s.BuildDraft(0.08)
	if err != nil {
		t.Fatal(err)
	}

	draft.Items[0].Quantity = 99
	if s.Cart.Items[0].Quantity != 2 {
		t.Fatalf("draft mutation leaked into cart")
	}
	if len(s.Cart.Items) != 1 || s.Step != StepProducts {
		t.Fatalf("building a draft changed session state")
	}
}

func TestBuildDraftBlankTenderedPaysExactly(t *testing.T) {
	s := NewSession(uuid.New(), uuid.New())
	s.Cart.AddItem(testProduct(t, "widget", 10.00))
	s.Tendered = ""

	draft, err := s.BuildDraft(0.08)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(draft.AmountPaid, draft.Total) {
		t.Fatalf("amount paid = %v, want total %v", draft.AmountPaid, draft.Total)
	}
	if !draft.Payment.Sufficient || draft.Payment.Change != 0 {
		t.Fatalf("blank tendered should be exact payment, got %+v", draft.Payment)
	}
}
