// Package ratelimit implements fixed-window admission control keyed on
// (client, source) pairs. Counters live in an external TTL-capable key-value
// store abstracted behind the Store interface, with an in-memory
// implementation for tests and single-instance deployments and a Redis
// implementation for production.
package ratelimit

import (
	"context"
	"time"
)

// Record is the persisted state for one (client, source) window. A new
// window silently replaces rather than merges the record, and the TTL equals
// the window length so stale records expire on their own.
type Record struct {
	RequestsInWindow int64 `json:"requests_in_window"`
	WindowStart      int64 `json:"window_start"`
	MaxRequests      int   `json:"max_requests"`
	WindowSeconds    int   `json:"window_seconds"`
}

// Store is the minimal key-value capability the limiter needs. IncrWindow is
// the atomic increment-with-TTL primitive: it resets the record when the
// stored window differs from windowStart, otherwise increments the counter,
// all in one storage-side operation so concurrent bursts cannot undercount.
// Get and PutWithTTL serve the maintenance pruner and tests.
type Store interface {
	IncrWindow(ctx context.Context, key string, windowStart int64, maxRequests int, window time.Duration) (int64, error)
	Get(ctx context.Context, key string) (*Record, error)
	PutWithTTL(ctx context.Context, key string, rec *Record, ttl time.Duration) error
	Close() error
}
