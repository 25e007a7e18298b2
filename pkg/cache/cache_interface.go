package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer, allowing the Redis
// implementation to be swapped for an in-memory one in tests.
type Cache interface {
	// Get reads a key and unmarshals it into dest.
	// found=false means a cache miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// Ping checks the connection.
	Ping(ctx context.Context) error
}
