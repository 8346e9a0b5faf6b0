package checkout

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/enum"
)

// Step is one stage of the checkout wizard.
type Step string

const (
	StepProducts Step = "products"
	StepReview   Step = "review"
	StepPayment  Step = "payment"
)

var (
	// ErrEmptyCart is returned when advancing past product selection or
	// building a draft with nothing in the cart.
	ErrEmptyCart = errors.New("checkout: cart is empty")
	// ErrAtFirstStep is returned when stepping back from product selection.
	ErrAtFirstStep = errors.New("checkout: already at first step")
	// ErrAtFinalStep is returned when advancing past the payment step;
	// the only way forward from payment is submission.
	ErrAtFinalStep = errors.New("checkout: already at payment step")
	// ErrNotAtPayment is returned when submitting from an earlier step.
	ErrNotAtPayment = errors.New("checkout: submission only allowed from payment step")
	// ErrSubmitInFlight is returned when a submission is already outstanding
	// for the session.
	ErrSubmitInFlight = errors.New("checkout: submission already in progress")
	// ErrInsufficientPayment is returned when the tendered amount does not
	// cover the total and the sale is not being recorded as due.
	ErrInsufficientPayment = errors.New("checkout: amount tendered is less than total")
)

// Session is one cashier's in-progress checkout: the cart plus everything
// the wizard accumulates on the way to submission. Sessions are private to
// a single register; there is no concurrent multi-user editing of one cart.
type Session struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	CashierID uuid.UUID `json:"cashier_id"`

	Step          Step               `json:"step"`
	Cart          Cart               `json:"cart"`
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Tendered      string             `json:"tendered"` // raw cashier input, parsed at validation time
	SearchTerm    string             `json:"search_term"`

	// Submitting latches while a submission is outstanding so a double
	// submit cannot create two transactions.
	Submitting bool `json:"submitting"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession opens a fresh checkout session at the product-selection step.
func NewSession(tenantID, cashierID uuid.UUID) *Session {
	now := time.Now()
	return &Session{
		ID:            uuid.New(),
		TenantID:      tenantID,
		CashierID:     cashierID,
		Step:          StepProducts,
		PaymentMethod: enum.PaymentMethodCash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Advance moves the wizard one step forward. products -> review requires a
// non-empty cart; the attempt is rejected with the session unchanged.
// review -> payment is unconditional. payment has no forward transition.
func (s *Session) Advance() error {
	switch s.Step {
	case StepProducts:
		if s.Cart.IsEmpty() {
			return ErrEmptyCart
		}
		s.Step = StepReview
	case StepReview:
		s.Step = StepPayment
	case StepPayment:
		return ErrAtFinalStep
	}
	s.touch()
	return nil
}

// Back moves the wizard one step backward. All accumulated state (items,
// customer, payment method, tendered amount) is preserved.
func (s *Session) Back() error {
	switch s.Step {
	case StepProducts:
		return ErrAtFirstStep
	case StepReview:
		s.Step = StepProducts
	case StepPayment:
		s.Step = StepReview
	}
	s.touch()
	return nil
}

// Reset returns every transient field to its initial value. Closing the
// wizard mid-sale and reopening it must not leak state between customers.
func (s *Session) Reset() {
	s.Cart.Clear()
	s.Step = StepProducts
	s.CustomerID = nil
	s.PaymentMethod = enum.PaymentMethodCash
	s.Tendered = ""
	s.SearchTerm = ""
	s.Submitting = false
	s.touch()
}

// BeginSubmit latches the session for submission. It fails if the wizard is
// not at the payment step, the cart is empty, or a submission is already
// outstanding. Callers must pair it with EndSubmit on failure.
func (s *Session) BeginSubmit() error {
	if s.Step != StepPayment {
		return ErrNotAtPayment
	}
	if s.Cart.IsEmpty() {
		return ErrEmptyCart
	}
	if s.Submitting {
		return ErrSubmitInFlight
	}
	s.Submitting = true
	s.touch()
	return nil
}

// EndSubmit releases the submission latch after a failed attempt so the
// cashier can correct input and retry.
func (s *Session) EndSubmit() {
	s.Submitting = false
	s.touch()
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}
