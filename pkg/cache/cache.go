// Package cache provides byte-oriented caching for rendered symbol
// images.
//
// Render results are always a recomputable projection of (record,
// configuration); the cache is a performance optimization keyed by a
// fingerprint of both, never a correctness dependency. Backends:
//
//   - file: on-disk cache for CLI usage (~/.cache/labelforge/)
//   - redis: shared cache for server deployments
//   - null: disabled caching (--no-cache, tests)
package cache

import (
	"context"
	"time"
)

// Cache is the interface all cache backends implement.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A TTL of 0 means the entry
	// never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
