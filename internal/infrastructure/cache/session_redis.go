package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tillpoint/pos-api/internal/domain/checkout"
	domainRepo "github.com/tillpoint/pos-api/internal/domain/repository"
)

// redisSessionStore keeps checkout sessions in Redis so several API
// instances can serve the same register. Sessions are stored as JSON
// under per-tenant keys with a sliding TTL.
type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a Redis-backed checkout session store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) domainRepo.CheckoutSessionRepository {
	return &redisSessionStore{client: client, ttl: ttl}
}

func sessionKey(tenantID, id uuid.UUID) string {
	return fmt.Sprintf("checkout:session:%s:%s", tenantID, id)
}

func cashierIndexKey(tenantID, cashierID uuid.UUID) string {
	return fmt.Sprintf("checkout:cashier:%s:%s", tenantID, cashierID)
}

func (s *redisSessionStore) Save(ctx context.Context, session *checkout.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	key := sessionKey(session.TenantID, session.ID)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.ttl)
	pipe.SAdd(ctx, cashierIndexKey(session.TenantID, session.CashierID), session.ID.String())
	pipe.Expire(ctx, cashierIndexKey(session.TenantID, session.CashierID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Get(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*checkout.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(tenantID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domainRepo.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	var session checkout.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error {
	session, err := s.Get(ctx, tenantID, id)
	if errors.Is(err, domainRepo.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, sessionKey(tenantID, id))
	pipe.SRem(ctx, cashierIndexKey(tenantID, session.CashierID), id.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) ListByCashier(ctx context.Context, tenantID uuid.UUID, cashierID uuid.UUID) ([]*checkout.Session, error) {
	ids, err := s.client.SMembers(ctx, cashierIndexKey(tenantID, cashierID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var out []*checkout.Session
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		session, err := s.Get(ctx, tenantID, id)
		if errors.Is(err, domainRepo.ErrSessionNotFound) {
			// Expired session still referenced by the index
			s.client.SRem(ctx, cashierIndexKey(tenantID, cashierID), raw)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	return out, nil
}
