package cacheinfra

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

const memoryBackend = "memory"

// envelope wraps stored bytes with the per-key deadline. sturdyc scopes its
// TTL to the client, so the adapter carries the requested TTL itself and
// treats the client TTL (MaxTTL) as a ceiling.
type envelope struct {
	ExpiresAt time.Time
	Data      []byte
}

func (e envelope) expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// MemoryStore is the in-process cache.Store implementation backed by sturdyc.
type MemoryStore struct {
	client *sturdyc.Client[envelope]
	maxTTL time.Duration
	now    func() time.Time
}

// NewMemoryStore creates a new in-process store adapter. It validates the
// configuration and initializes a sturdyc client with the provided settings.
//
// Version compatibility note: this implementation assumes the sturdyc v1.x
// API. Monitor sturdyc version upgrades for potential option mapping changes.
func NewMemoryStore(cfg Config) (*MemoryStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var options []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[envelope](
		cfg.Capacity,
		cfg.NumShards,
		cfg.MaxTTL,
		cfg.EvictionPercentage,
		options...,
	)

	return &MemoryStore{
		client: client,
		maxTTL: cfg.MaxTTL,
		now:    time.Now,
	}, nil
}

// Get implements cache.Store. Entries past their per-key deadline are
// reported as misses and removed eagerly instead of waiting for the sweep.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e, ok := s.client.Get(key)
	if !ok {
		cacheMisses.WithLabelValues(memoryBackend).Inc()
		return nil, false, nil
	}
	if e.expired(s.now()) {
		s.client.Delete(key)
		cacheMisses.WithLabelValues(memoryBackend).Inc()
		return nil, false, nil
	}
	cacheHits.WithLabelValues(memoryBackend).Inc()
	return e.Data, true, nil
}

// Set implements cache.Store. TTLs above the configured MaxTTL are clamped;
// non-positive TTLs are ignored rather than stored already expired.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if ttl > s.maxTTL {
		ttl = s.maxTTL
	}
	s.client.Set(key, envelope{
		ExpiresAt: s.now().Add(ttl),
		Data:      value,
	})
	return nil
}

// Delete implements cache.Store.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}
