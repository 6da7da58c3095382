package cache

import (
	"context"
	"sync"
	"time"

	"github.com/aikapulse/aikapulse/internal/snapshot"
)

type memoryEntry struct {
	result    snapshot.RawResult
	storedAt  time.Time
	expiresAt time.Time
}

// MemoryStore is a concurrency-safe in-process cache. Concurrent domain
// resolutions read and write it without coordinating; a rare duplicate
// fetch on a get/put race is acceptable and the latest put wins.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Get returns a fresh entry, stamping how long it has been cached.
func (s *MemoryStore) Get(_ context.Context, key string) (snapshot.RawResult, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	now := time.Now()
	if !ok {
		return snapshot.RawResult{}, false
	}
	if now.After(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent put may have
		// refreshed the entry.
		if cur, ok := s.entries[key]; ok && now.After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return snapshot.RawResult{}, false
	}

	res := e.result
	res.FromCache = true
	res.Age = now.Sub(e.storedAt)
	return res, true
}

// Put stores a result for the given lifetime. A non-positive ttl is a no-op.
func (s *MemoryStore) Put(_ context.Context, key string, res snapshot.RawResult, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	now := time.Now()
	s.mu.Lock()
	s.entries[key] = memoryEntry{result: res, storedAt: now, expiresAt: now.Add(ttl)}
	s.mu.Unlock()
}

// Len reports the number of entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
