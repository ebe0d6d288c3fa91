// Package kv is a small in-process key-value store with per-entry TTLs.
// It backs the dashboard cache and user preference storage: values are
// stored as JSON so callers stay decoupled from each other's types.
package kv

import (
	"encoding/json"
	"sync"
	"time"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Set stores value under key. A zero ttl means the entry never expires.
func (s *Store) Set(key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry{data: data, expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}

// Get unmarshals the entry under key into dest. It reports false when the
// key is absent or its TTL has passed; expired entries are dropped lazily.
func (s *Store) Get(key string, dest any) (bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if e.expired(s.now()) {
		s.mu.Lock()
		// Re-check under the write lock; a fresh Set may have raced us.
		if cur, ok := s.entries[key]; ok && cur.expired(s.now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len counts live entries. Expired ones still waiting for lazy cleanup
// are not counted.
func (s *Store) Len() int {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.entries {
		if !e.expired(now) {
			n++
		}
	}
	return n
}
