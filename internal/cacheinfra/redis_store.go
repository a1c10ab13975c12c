package cacheinfra

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisBackend = "redis"

// RedisStore is a cache.Store backed by a shared Redis instance. Redis owns
// TTL expiry, so per-key TTLs map directly onto SET with expiration.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store. The caller owns the client
// lifecycle. An empty prefix keeps keys bit-for-bit identical to the
// documented `<ns>`/`<ns>_<suffix>`/`<ns>_<id>` format, which external cache
// inspection tooling relies on; set a prefix only when the Redis instance is
// shared with unrelated applications.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if client == nil {
		panic("cacheinfra: redis client cannot be nil")
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

// Get implements cache.Store.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			cacheMisses.WithLabelValues(redisBackend).Inc()
			return nil, false, nil
		}
		cacheErrors.WithLabelValues(redisBackend, "get").Inc()
		return nil, false, errors.Wrap(err, "redis get")
	}
	cacheHits.WithLabelValues(redisBackend).Inc()
	return data, true, nil
}

// Set implements cache.Store.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		cacheErrors.WithLabelValues(redisBackend, "set").Inc()
		return errors.Wrap(err, "redis set")
	}
	return nil
}

// Delete implements cache.Store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		cacheErrors.WithLabelValues(redisBackend, "delete").Inc()
		return errors.Wrap(err, "redis del")
	}
	return nil
}
