package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// TenantRateLimiter applies per-tenant request rate limits. Each tenant
// gets its own token bucket so a busy store cannot starve the others.
type TenantRateLimiter struct {
	mu       sync.RWMutex
	limiters map[uuid.UUID]*rateLimiterEntry
	limit    rate.Limit
	burst    int
	ttl      time.Duration
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewTenantRateLimiter creates a limiter allowing requestsPerSecond with
// the given burst per tenant. Idle tenant buckets are evicted after ttl.
func NewTenantRateLimiter(requestsPerSecond float64, burst int, ttl time.Duration) *TenantRateLimiter {
	rl := &TenantRateLimiter{
		limiters: make(map[uuid.UUID]*rateLimiterEntry),
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
		ttl:      ttl,
	}

	go rl.cleanupLoop()

	return rl
}

func (rl *TenantRateLimiter) getLimiter(tenantID uuid.UUID) *rate.Limiter {
	rl.mu.RLock()
	entry, exists := rl.limiters[tenantID]
	rl.mu.RUnlock()

	if exists {
		rl.mu.Lock()
		entry.lastSeen = time.Now()
		rl.mu.Unlock()
		return entry.limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double-check after acquiring write lock
	if entry, exists := rl.limiters[tenantID]; exists {
		entry.lastSeen = time.Now()
		return entry.limiter
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters[tenantID] = &rateLimiterEntry{
		limiter:  limiter,
		lastSeen: time.Now(),
	}

	return limiter
}

func (rl *TenantRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.ttl)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for tenantID, entry := range rl.limiters {
			if time.Since(entry.lastSeen) > rl.ttl {
				delete(rl.limiters, tenantID)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware returns a gin handler enforcing the per-tenant limit.
// Requests outside any tenant scope pass through unlimited.
func (rl *TenantRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, exists := GetTenantID(c)
		if !exists || tenantID == uuid.Nil {
			c.Next()
			return
		}

		limiter := rl.getLimiter(tenantID)

		if !limiter.Allow() {
			c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Rate limit exceeded. Please slow down.",
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))

		c.Next()
	}
}

// Stats reports the number of active tenant buckets.
func (rl *TenantRateLimiter) Stats() map[string]interface{} {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	return map[string]interface{}{
		"active_tenants": len(rl.limiters),
		"limit_per_sec":  float64(rl.limit),
		"burst":          rl.burst,
	}
}
