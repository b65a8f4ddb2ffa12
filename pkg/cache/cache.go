// Package cache stores rendered graph artifacts.
//
// Rendering a DOT document with Graphviz is the most expensive step of a
// request, and identical documents are common (users resend the same graph
// after a typo elsewhere, or request several formats). The [Cache]
// interface lets renderers memoize results by document hash.
//
// Backends:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: expiry-stamped files under a directory, for the CLI
//   - [RedisCache]: shared cache for multi-instance servers and workers
//
// Keys are built by a [Keyer]; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default entry lifetimes.
const (
	// TTLArtifact is how long rendered images are kept.
	TTLArtifact = 7 * 24 * time.Hour
)

// NullCache never stores anything. It is used when caching is disabled.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
