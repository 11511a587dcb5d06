package cache

import (
	"context"
	"sync"
	"time"
)

const DefaultMaxEntries = 10000

type entry struct {
	value     string
	expiresAt time.Time
}

// TTLStore is a bounded in-process Store. Expiry is checked lazily on Get and
// when the map is full.
type TTLStore struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

type Option func(*TTLStore)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TTLStore) { s.now = now }
}

// WithMaxEntries bounds the map. Values <= 0 keep the default.
func WithMaxEntries(n int) Option {
	return func(s *TTLStore) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

func NewTTLStore(ttl time.Duration, opts ...Option) *TTLStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &TTLStore{
		ttl:        ttl,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
		entries:    make(map[string]entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TTLStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return "", ErrNotFound
	}
	return e.value, nil
}

func (s *TTLStore) Put(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxEntries {
		s.evictLocked(now)
	}
	s.entries[key] = entry{value: value, expiresAt: now.Add(s.ttl)}
	return nil
}

// Len reports the number of entries held, expired or not.
func (s *TTLStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// evictLocked drops expired entries, then the one closest to expiry if the
// map is still full.
func (s *TTLStore) evictLocked(now time.Time) {
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	if len(s.entries) < s.maxEntries {
		return
	}

	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for k, e := range s.entries {
		if !found || e.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt, found = k, e.expiresAt, true
		}
	}
	if found {
		delete(s.entries, oldestKey)
	}
}
