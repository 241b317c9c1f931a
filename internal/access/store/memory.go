package store

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

// MemoryStore is an in-process SessionStore for tests and local
// development. Expired entries are dropped lazily on access, which keeps
// the same observable behavior as Redis without a sweeper goroutine.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Put(ctx context.Context, cat Category, key, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var deadline time.Time
	if ttl > 0 {
		deadline = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[cat.Key(key)] = memoryEntry{value: value, expiresAt: deadline}
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Get(ctx context.Context, cat Category, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	full := cat.Key(key)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[full]
	if !ok {
		return "", false, nil
	}

	if entry.expired(now) {
		delete(s.entries, full)
		return "", false, nil
	}

	return entry.value, true, nil
}

func (s *MemoryStore) Exists(ctx context.Context, cat Category, key string) (bool, error) {
	_, ok, err := s.Get(ctx, cat, key)
	return ok, err
}

func (s *MemoryStore) Delete(ctx context.Context, cat Category, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	for _, k := range keys {
		delete(s.entries, cat.Key(k))
	}
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) ScanPrefix(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := strings.TrimSuffix(pattern, "*")
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	for k, entry := range s.entries {
		if entry.expired(now) {
			delete(s.entries, k)
			continue
		}

		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}

	return keys, nil
}
