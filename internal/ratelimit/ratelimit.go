package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/bl1nk-platform/edge-gateway/internal/metrics"
)

// Limiter decides whether a (client, source) pair may be admitted.
type Limiter interface {
	Allow(ctx context.Context, clientID, source string) (bool, error)
	Close() error
}

type fixedWindowLimiter struct {
	store       Store
	maxRequests int
	window      time.Duration
}

// NewFixedWindowLimiter creates a limiter counting requests in windows
// aligned to multiples of the window length since epoch. Admission is
// checked before any verification or mapping cost is spent.
func NewFixedWindowLimiter(store Store, maxRequests int, window time.Duration) Limiter {
	return &fixedWindowLimiter{
		store:       store,
		maxRequests: maxRequests,
		window:      window,
	}
}

// Key builds the storage key for a (client, source) pair.
func Key(clientID, source string) string {
	return fmt.Sprintf("rate_limit:%s:%s", clientID, source)
}

func (l *fixedWindowLimiter) Allow(ctx context.Context, clientID, source string) (bool, error) {
	windowMs := l.window.Milliseconds()
	windowStart := (time.Now().UnixMilli() / windowMs) * windowMs

	count, err := l.store.IncrWindow(ctx, Key(clientID, source), windowStart, l.maxRequests, l.window)
	if err != nil {
		return false, err
	}

	allowed := count <= int64(l.maxRequests)
	if !allowed {
		metrics.RateLimitHits.WithLabelValues(source).Inc()
	}
	return allowed, nil
}

func (l *fixedWindowLimiter) Close() error {
	return l.store.Close()
}

// NoOpLimiter always allows requests (for testing or disabled rate limiting).
type NoOpLimiter struct{}

func (n *NoOpLimiter) Allow(ctx context.Context, clientID, source string) (bool, error) {
	return true, nil
}

func (n *NoOpLimiter) Close() error {
	return nil
}
