package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and single-instance
// deployments. Expired entries linger until the next write to their key or a
// Prune pass from the maintenance loop.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
	}
}

func (s *MemoryStore) IncrWindow(ctx context.Context, key string, windowStart int64, maxRequests int, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || entry.rec.WindowStart != windowStart || time.Now().After(entry.expiresAt) {
		// Window reset: a fresh record replaces whatever was there.
		s.entries[key] = &memoryEntry{
			rec: Record{
				RequestsInWindow: 1,
				WindowStart:      windowStart,
				MaxRequests:      maxRequests,
				WindowSeconds:    int(window.Seconds()),
			},
			expiresAt: time.Now().Add(window),
		}
		return 1, nil
	}

	entry.rec.RequestsInWindow++
	return entry.rec.RequestsInWindow, nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	rec := entry.rec
	return &rec, nil
}

func (s *MemoryStore) PutWithTTL(ctx context.Context, key string, rec *Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &memoryEntry{
		rec:       *rec,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Prune removes entries past their TTL and reports how many were dropped.
// Called periodically by the maintenance loop.
func (s *MemoryStore) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
			pruned++
		}
	}
	return pruned
}

// Len reports the number of live entries (expired but unpruned included).
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) Close() error {
	return nil
}
