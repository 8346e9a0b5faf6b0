package checkout

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/enum"
)

func TestAdvanceGuardsEmptyCart(t *testing.T) {
	s := NewSession(uuid.New(), uuid.New())

	if err := s.Advance(); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if s.Step != StepProducts {
		t.Fatalf("step changed on rejected advance: %s", s.Step)
	}
}

func TestAdvanceThroughAllSteps(t *testing.T) {
	s := NewSession(uuid.New(), uuid.New())
	s.Cart.AddItem(testProduct(t, "soda", 1.50))

	if err := s.Advance(); err != nil || s.Step != StepReview {
		t.Fatalf("products->review: err=%v step=%s", err, s.Step)
	}
	if err := s.Advance(); err != nil || s.Step != StepPayment {
		t.Fatalf("review->payment: err=%v step=%s", err, s.Step)
	}
	if err := s.Advance(); !errors.Is(err, ErrAtFinalStep) {
		t.Fatalf("expected ErrAtFinalStep, got %v", err)
	}
}

func TestBackwardNavigationPreservesState(t *testing.T) {
	s := NewSession(uuid.New(), uuid.New())
	p := testProduct(t, "soda", 1.50)
	s.Cart.AddItem(p)
	customerID := uuid.New()
	s.CustomerID = &customerID
	s.PaymentMethod = enum.PaymentMethodCard
	s.Tendered = "20.00"

	if err := s.Advance(); err != nil {
		t.Fatal(err)
	}
	if err := s.Back(); err != nil || s.Step != StepProducts {
		t.Fatalf("review->products: err=%v step=%s", err, s.Step)
	}
	if err := s.Advance(); err != nil || s.Step != StepReview {
		t.Fatalf("products->review again: err=%v step=%s", err, s.Step)
	}

	if len(s.Cart.Items) != 1 || s.Cart.Items[0].Product.ID != p.ID {
		t.Fatalf("items lost on back navigation")
	}
	if s.CustomerID == nil || *s.CustomerID != customerID {
		t.Fatalf("customer lost on back navigation")
	}
	if s.PaymentMethod != enum.PaymentMethodCard || s.Tendered != "20.00" {
		t.Fatalf("payment fields lost on back navigation")
	}
}

func TestBackAtFirstStep(t *testing.T) {
	s := NewSession(uuid.New(), uuid.New())
	if err := s.Back(); !errors.Is(err, ErrAtFirstStep) {
		t.Fatalf("expected ErrAtFirstStep, got %v", err)
	}
}

func TestResetClearsAllTransientFields(t *testing.T) {
	s := NewSession(uuid.New(), uuid.New())
	s.Cart.AddItem(testProduct(t, "soda", 1.50))
	customerID := uuid.New()
	s.CustomerID = &customerID
	s.PaymentMethod = enum.PaymentMethodDigital
	s.Tendered = "5"
	s.SearchTerm = "sod"
	_ = s.Advance()

	s.Reset()

	if !s.Cart.IsEmpty() || s.Step != StepProducts || s.CustomerID != nil ||
		s.PaymentMethod != enum.PaymentMethodCash || s.Tendered != "" ||
		s.SearchTerm != "" || s.Submitting {
		t.Fatalf("reset left state behind: %+v", s)
	}
}

func TestBeginSubmitLatch(t *testing.T) {
	s := NewSession(uuid.New(), uuid.New())
	s.Cart.AddItem(testProduct(t, "soda", 1.50))
	_ = s.Advance()
	_ = s.Advance()

	if err := s.BeginSubmit(); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := s.BeginSubmit(); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	// failed submission releases the latch for retry
	s.EndSubmit()
	if err := s.BeginSubmit(); err != nil {
		t.Fatalf("retry after EndSubmit: %v", err)
	}
}

func TestBeginSubmitRequiresPaymentStep(t *testing.T) {
	s := NewSession(uuid.New(), uuid.New())
	s.Cart.AddItem(testProduct(t, "soda", 1.50))

	if err := s.BeginSubmit(); !errors.Is(err, ErrNotAtPayment) {
		t.Fatalf("expected ErrNotAtPayment, got %v", err)
	}
}
