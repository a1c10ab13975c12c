package cache

import (
	"time"

	"github.com/goliatone/go-queryset-cache/internal/cacheinfra"
	"github.com/redis/go-redis/v9"
)

// MemoryConfig exposes the in-process store configuration options for
// consumers of the cache package.
type MemoryConfig struct {
	// Capacity is the maximum number of entries the store can hold.
	Capacity int

	// NumShards controls sharding of the underlying cache for concurrency.
	NumShards int

	// MaxTTL caps the lifetime of any entry regardless of the TTL requested
	// on Set. Per-key TTLs above this value are clamped.
	MaxTTL time.Duration

	// EvictionPercentage is the share of entries evicted when the store is
	// at capacity, between 1 and 100.
	EvictionPercentage int

	// EvictionInterval sets how often expired entries are swept. Zero uses
	// the backend default.
	EvictionInterval time.Duration
}

// DefaultMemoryConfig returns a MemoryConfig populated with sensible defaults.
func DefaultMemoryConfig() MemoryConfig {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c MemoryConfig) Validate() error {
	return c.toInternal().Validate()
}

// NewMemoryStore constructs the in-process Store implementation backed by
// sturdyc using the provided configuration.
func NewMemoryStore(cfg MemoryConfig) (Store, error) {
	return cacheinfra.NewMemoryStore(cfg.toInternal())
}

// NewRedisStore constructs a Store backed by a shared Redis instance. The
// caller owns the client lifecycle. An optional key prefix isolates this
// application's entries on a shared server.
func NewRedisStore(client *redis.Client, prefix string) Store {
	return cacheinfra.NewRedisStore(client, prefix)
}

func (c MemoryConfig) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		MaxTTL:             c.MaxTTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) MemoryConfig {
	return MemoryConfig{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		MaxTTL:             cfg.MaxTTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
