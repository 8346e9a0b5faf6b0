package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tillpoint/pos-api/internal/domain/checkout"
	domainRepo "github.com/tillpoint/pos-api/internal/domain/repository"
)

type sessionEntry struct {
	session   *checkout.Session
	expiresAt time.Time
}

// memorySessionStore keeps checkout sessions in process memory. Suitable for
// single-instance deployments; multi-instance setups use the Redis store.
type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]sessionEntry
	ttl      time.Duration
	done     chan struct{}
}

// NewMemorySessionStore creates an in-memory checkout session store.
// Sessions idle past ttl are swept in the background.
func NewMemorySessionStore(ttl time.Duration) domainRepo.CheckoutSessionRepository {
	s := &memorySessionStore{
		sessions: make(map[uuid.UUID]sessionEntry),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *memorySessionStore) Save(ctx context.Context, session *checkout.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy so callers cannot mutate the stored session without Save
	cp := *session
	cp.Cart.Items = append([]checkout.LineItem(nil), session.Cart.Items...)

	s.sessions[session.ID] = sessionEntry{
		session:   &cp,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *memorySessionStore) Get(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*checkout.Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, domainRepo.ErrSessionNotFound
	}
	if entry.session.TenantID != tenantID {
		return nil, domainRepo.ErrSessionNotFound
	}

	cp := *entry.session
	cp.Cart.Items = append([]checkout.LineItem(nil), entry.session.Cart.Items...)
	return &cp, nil
}

func (s *memorySessionStore) Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.sessions[id]; ok && entry.session.TenantID == tenantID {
		delete(s.sessions, id)
	}
	return nil
}

func (s *memorySessionStore) ListByCashier(ctx context.Context, tenantID uuid.UUID, cashierID uuid.UUID) ([]*checkout.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	var out []*checkout.Session
	for _, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			continue
		}
		if entry.session.TenantID != tenantID || entry.session.CashierID != cashierID {
			continue
		}
		cp := *entry.session
		cp.Cart.Items = append([]checkout.LineItem(nil), entry.session.Cart.Items...)
		out = append(out, &cp)
	}
	return out, nil
}

// Close stops the background sweeper.
func (s *memorySessionStore) Close() {
	close(s.done)
}

func (s *memorySessionStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for id, entry := range s.sessions {
				if now.After(entry.expiresAt) {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
