// Package cache provides content-addressed caching for pipeline stages.
//
// Every pipeline stage (graph building, layout, export) is a
// deterministic function of its input, so stage outputs are cached
// under SHA-256 content hashes: the same analysis always maps to the
// same graph key, the same graph and placement parameters to the same
// layout key, and so on. Keys are built by a [Keyer] and stored in a
// [Cache] backend.
//
// # Backends
//
//   - [FileCache]: entries as files under a local directory, for CLI runs
//   - [RedisCache]: shared cache for multi-instance API deployments
//   - [NullCache]: no-op backend for tests and runs with caching disabled
//
// # Key scoping
//
// A [ScopedKeyer] prefixes all keys, which keeps deployments sharing
// one Redis instance in disjoint key spaces:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
package cache

import (
	"context"
	"time"
)

// Cache is the interface for byte-level cache backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second result reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// Default TTLs per pipeline stage. Stage outputs never go stale on
// their own (same input, same output), so expiry mainly bounds storage
// after code changes.
const (
	// TTLGraph is the default TTL for graphs built from analyses.
	TTLGraph = 7 * 24 * time.Hour

	// TTLLayout is the default TTL for positioned diagrams.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is the default TTL for rendered artifacts, which are
	// larger and cheap to rebuild from a cached layout.
	TTLArtifact = 24 * time.Hour
)
