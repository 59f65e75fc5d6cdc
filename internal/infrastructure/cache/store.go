package cache

import (
	"context"
	"time"
)

// Store is a minimal byte-oriented cache backend. Implementations must be
// safe for concurrent use. A ttl of zero or less means the entry never
// expires on its own.
type Store interface {
	// Get returns the value for key and whether it was present and unexpired
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key with the given ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes every key matching the glob pattern. Patterns use
	// path.Match syntax; a pattern without wildcards deletes a single key.
	// It returns the number of entries removed.
	Delete(ctx context.Context, pattern string) (int64, error)

	// Close releases backend resources
	Close() error
}
