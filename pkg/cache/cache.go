// Package cache stores rendered artifacts keyed by a hash of the diagram
// description and the render options.
//
// Three backends implement [Cache]:
//   - [FileCache]: one msgpack-encoded file per entry, used by the CLI
//   - [RedisCache]: a shared Redis instance, used by the HTTP service
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Keys are produced by a [Keyer]. [DefaultKeyer] hashes the key components;
// [ScopedKeyer] prefixes every key so that several tenants can share one
// backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Entry lifetimes.
const (
	// TTLArtifact bounds how long a rendered document is kept. Rendering is
	// deterministic, so the limit only reclaims space.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLWiring bounds how long a connection graph drawing is kept.
	TTLWiring = 7 * 24 * time.Hour
)

// NullCache never stores anything.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
