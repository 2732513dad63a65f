// Package cache stores computed layouts and rendered artifacts.
//
// Entries are opaque byte slices addressed by string keys. Keys are built by
// a [Keyer] from a content hash of the input plus every option that affects
// the result, so a changed profile or strategy never returns a stale plan.
//
// Backends:
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: a shared Redis instance for the API server
//   - [NullCache]: disables caching
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Default time-to-live per entry type.
const (
	// TTLLayout applies to computed plans. Plans depend only on their key,
	// so the TTL bounds disk use rather than staleness.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered files.
	TTLArtifact = 7 * 24 * time.Hour
)

// NullCache misses on every Get and drops every Set.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
