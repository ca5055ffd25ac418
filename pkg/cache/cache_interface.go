package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer so implementations
// (Redis, in-memory for tests) can be swapped per component.
type Cache interface {
	// Get reads a key and unmarshals it into dest.
	// found == false means cache miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
