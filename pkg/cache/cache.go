// Package cache stores mining results keyed by the content of the database
// and the options of the run.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer] so that every entry point derives the same key
// for the same run.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Default lifetimes of cached entries.
const (
	TTLResult   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
