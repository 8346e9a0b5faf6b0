package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tillpoint/pos-api/internal/domain/checkout"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	domainRepo "github.com/tillpoint/pos-api/internal/domain/repository"
)

func productFixture(name string, price float64) entity.Product {
	p := entity.Product{ID: uuid.New(), Name: name}
	p.SetPriceFromDecimal(price)
	return p
}

func TestMemorySessionStoreSaveAndGet(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	tenantID := uuid.New()
	session := checkout.NewSession(tenantID, uuid.New())
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	got, err := store.Get(ctx, tenantID, session.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if got.ID != session.ID || got.Step != checkout.StepProducts {
		t.Fatalf("stored session does not match: %+v", got)
	}
}

func TestMemorySessionStoreMissing(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)

	_, err := store.Get(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, domainRepo.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMemorySessionStoreTenantIsolation(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	session := checkout.NewSession(uuid.New(), uuid.New())
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	// A different tenant must not be able to read or delete the session
	otherTenant := uuid.New()
	if _, err := store.Get(ctx, otherTenant, session.ID); !errors.Is(err, domainRepo.ErrSessionNotFound) {
		t.Fatalf("expected cross-tenant get to fail, got %v", err)
	}
	if err := store.Delete(ctx, otherTenant, session.ID); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if _, err := store.Get(ctx, session.TenantID, session.ID); err != nil {
		t.Fatalf("cross-tenant delete should be a no-op, got %v", err)
	}
}

func TestMemorySessionStoreCopyOnSave(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	session := checkout.NewSession(uuid.New(), uuid.New())
	session.Cart.AddItem(productFixture("Widget", 10.00))
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	// Mutating the caller's session after Save must not affect the store
	session.Cart.Clear()

	got, err := store.Get(ctx, session.TenantID, session.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if got.Cart.IsEmpty() {
		t.Fatalf("stored cart should be unaffected by caller mutation")
	}
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := NewMemorySessionStore(10 * time.Millisecond)
	ctx := context.Background()

	session := checkout.NewSession(uuid.New(), uuid.New())
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := store.Get(ctx, session.TenantID, session.ID); !errors.Is(err, domainRepo.ErrSessionNotFound) {
		t.Fatalf("expected expired session to be gone, got %v", err)
	}
}

func TestMemorySessionStoreListByCashier(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	tenantID := uuid.New()
	cashierID := uuid.New()

	first := checkout.NewSession(tenantID, cashierID)
	second := checkout.NewSession(tenantID, cashierID)
	other := checkout.NewSession(tenantID, uuid.New())

	for _, s := range []*checkout.Session{first, second, other} {
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("unexpected save error: %v", err)
		}
	}

	sessions, err := store.ListByCashier(ctx, tenantID, cashierID)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions for cashier, got %d", len(sessions))
	}
}
