package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/checkout"
)

// ErrSessionNotFound is returned when no checkout session exists for an ID,
// either because it was never created, already submitted, or expired.
var ErrSessionNotFound = errors.New("checkout session not found")

// CheckoutSessionRepository defines the interface for checkout session storage.
// Sessions live server-side so a cashier's in-progress sale survives page
// reloads; implementations may expire idle sessions.
type CheckoutSessionRepository interface {
	Save(ctx context.Context, session *checkout.Session) error
	Get(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*checkout.Session, error)
	Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error
	ListByCashier(ctx context.Context, tenantID uuid.UUID, cashierID uuid.UUID) ([]*checkout.Session, error)
}
