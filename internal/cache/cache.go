package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key does not exist or has
// expired. Callers distinguish it from transport errors with errors.Is.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines the interface for the ephemeral leaderboard cache.
// Allows multiple implementations (Redis, in-memory mock) and easy testing.
type Cache interface {
	// Get fetches the value stored under key. Returns ErrCacheMiss when
	// the key is absent or expired.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key with the given TTL. A zero TTL stores
	// the value without expiration.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close cleans up resources (connections, etc.)
	Close() error
}
