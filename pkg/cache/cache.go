// Package cache stores intermediate and final render results.
//
// Computing a dot field is cheap compared to decoding and rasterizing large
// inputs, but repeated CLI runs and API requests often ask for the same
// thing. The pipeline caches two stages:
//
//   - results: the computed dot list for an input set and parameter set
//   - artifacts: the rendered bytes for a result and output options
//
// # Backends
//
//   - [FileCache]: JSON entry files under the user cache dir (CLI)
//   - [RedisCache]: shared cache for the HTTP server
//   - [MemoryCache]: process-local, used by the tuner and tests
//   - [NullCache]: disables caching
//
// Keys come from a [Keyer]; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Default lifetimes for cached entries.
const (
	TTLResult   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiration.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
