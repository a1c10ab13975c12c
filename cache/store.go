package cache

import (
	"context"
	"time"
)

// Store is the external key-value cache contract consumed by the query cache.
// Implementations are expected to be safe for concurrent use and may block on
// network I/O; the query cache layers no timeouts on top of what the backend
// already enforces.
type Store interface {
	// Get returns the stored bytes for key. The second return value reports
	// whether the key was present; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key with the given TTL. A ttl <= 0 is invalid
	// and implementations are free to reject or ignore the write.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
