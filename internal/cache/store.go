// Package cache holds the TTL caches that sit in front of the remote object
// store. Entries map a file path to its last known contents and disappear on
// their own once the TTL has elapsed since the last Put.
package cache

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("cache entry not found")

// DefaultTTL is how long an entry survives after its last Put.
const DefaultTTL = 600 * time.Second

type Store interface {
	// Get returns the cached contents, or ErrNotFound when the key is absent
	// or expired. An empty string is a valid cached value.
	Get(ctx context.Context, key string) (string, error)
	// Put inserts or overwrites the value and restarts its TTL.
	Put(ctx context.Context, key, value string) error
}
