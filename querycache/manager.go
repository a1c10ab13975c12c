package querycache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-queryset-cache/cache"
)

type keyKind uint8

const (
	keyKindCollection keyKind = iota + 1
	keyKindDetail
)

// Manager is the per-record-type read-through façade. It is stateless beyond
// its configuration and the registry of keys it has written; create one per
// type at process start and share it for the process lifetime.
//
// The manager performs no locking around cache population: concurrent callers
// missing on the same key each run the underlying query and each write the
// entry, last TTL wins. Invalidation deletes are fire-and-forget; a failed
// delete leaves the stale entry to age out via TTL.
type Manager[T any] struct {
	source    DataSource[T]
	store     cache.Store
	codec     cache.Codec
	cfg       Config[T]
	namespace string
	log       zerolog.Logger

	// keys this manager has written, used by the Clear helpers. Only keys
	// written by this process are known here; entries written by other
	// processes sharing the store age out via TTL instead.
	keys *xsync.MapOf[string, keyKind]
}

// Option configures a Manager at construction.
type Option[T any] func(*Manager[T])

// WithLogger attaches a logger. The default discards everything.
func WithLogger[T any](log zerolog.Logger) Option[T] {
	return func(m *Manager[T]) { m.log = log }
}

// WithCodec overrides the entry codec. The default is msgpack.
func WithCodec[T any](codec cache.Codec) Option[T] {
	return func(m *Manager[T]) { m.codec = codec }
}

// New constructs a Manager. Configuration problems are reported here, once,
// never at request time.
func New[T any](source DataSource[T], store cache.Store, cfg Config[T], opts ...Option[T]) (*Manager[T], error) {
	if source == nil {
		return nil, errors.New("querycache: data source is required")
	}
	if store == nil {
		return nil, errors.New("querycache: store is required")
	}

	cfg = cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "querycache: invalid config")
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = namespaceFor[T]()
	}

	m := &Manager[T]{
		source:    source,
		store:     store,
		codec:     cache.NewMsgpackCodec(),
		cfg:       cfg,
		namespace: namespace,
		log:       zerolog.Nop(),
		keys:      xsync.NewMapOf[string, keyKind](),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Namespace returns the effective cache key namespace: the configured
// override or the derived type name. Invalidation call sites use it to build
// keys for WithKeyInvalidation.
func (m *Manager[T]) Namespace() string {
	return m.namespace
}

// CollectionCacheKey returns the key a collection fetch with the given suffix
// reads and writes.
func (m *Manager[T]) CollectionCacheKey(suffix string) string {
	return cache.CollectionKey(m.namespace, suffix)
}

// DetailCacheKey returns the key a detail fetch for the given identifier
// reads and writes.
func (m *Manager[T]) DetailCacheKey(identifier any) string {
	return cache.DetailKey(m.namespace, identifier)
}

// FetchCollection resolves a collection through the cache.
//
// On a hit the stored identifier sequence is reconstituted into a query
// scoped to exactly those identifiers, in their recorded order; anything the
// caller chains onto it executes against the data source, never the cache.
// On a miss the criteria run against the data source, the identifier sequence
// is written under the collection key with the list TTL, and the materialized
// result is returned as a still-composable query.
//
// Only the exact (suffix, criteria) combination requested here is ever
// cached. Chaining further criteria onto the returned query is never written
// back.
func (m *Manager[T]) FetchCollection(ctx context.Context, suffix string, criteria ...Criteria) (Query[T], error) {
	if suffix == "" && len(criteria) > 0 {
		m.log.Warn().
			Str("namespace", m.namespace).
			Msg("caching a filtered collection without a suffix; it shares the unfiltered entry's key")
	}

	key := cache.CollectionKey(m.namespace, suffix)
	relations := m.cfg.listRelations()

	if data, ok := m.storeGet(ctx, key); ok {
		var entry collectionEntry
		if err := m.codec.Unmarshal(data, &entry); err == nil {
			return m.source.Query(relations).ByIdentifiers(entry.IDs...), nil
		} else {
			m.log.Warn().Err(err).Str("key", key).Msg("discarding undecodable collection entry")
			m.storeDelete(ctx, key)
		}
	}

	live := m.source.Query(relations, criteria...)
	records, err := live.All(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]any, 0, len(records))
	for _, record := range records {
		id, err := m.identify(record)
		if err != nil {
			m.log.Warn().Err(err).Str("key", key).Msg("skipping collection cache write; identifier extraction failed")
			return &cachedResult[T]{records: records, live: live}, nil
		}
		ids = append(ids, id)
	}

	entry := collectionEntry{IDs: ids, Suffix: suffix, CachedAt: time.Now()}
	if data, err := m.codec.Marshal(entry); err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("skipping collection cache write; encode failed")
	} else if m.storeSet(ctx, key, data, m.cfg.ListTTL) {
		m.trackKey(key, keyKindCollection)
	}

	return &cachedResult[T]{
		records: records,
		live:    m.source.Query(relations).ByIdentifiers(ids...),
	}, nil
}

// FetchDetail resolves a single record through the cache.
//
// A cached entry only asserts that the identifier satisfied the criteria
// recently; the record itself is re-fetched by identifier so field reads are
// never stale. If the record vanished underneath the entry, the entry is
// dropped and the configured not-found error is returned, same as a miss that
// matches nothing.
func (m *Manager[T]) FetchDetail(ctx context.Context, identifier any, criteria ...Criteria) (T, error) {
	var zero T

	key := cache.DetailKey(m.namespace, identifier)
	relations := m.cfg.detailRelations()

	if data, ok := m.storeGet(ctx, key); ok {
		var entry detailEntry
		err := m.codec.Unmarshal(data, &entry)
		if err == nil {
			records, err := m.source.Query(relations).ByIdentifiers(identifier).All(ctx)
			if err != nil {
				return zero, err
			}
			if len(records) > 0 {
				return records[0], nil
			}
			// Record deleted underneath the cache entry.
			m.storeDelete(ctx, key)
			return zero, m.notFound(identifier)
		}
		m.log.Warn().Err(err).Str("key", key).Msg("discarding undecodable detail entry")
		m.storeDelete(ctx, key)
	}

	record, err := m.source.QueryOne(ctx, relations, criteria...)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return zero, m.notFound(identifier)
		}
		return zero, err
	}

	entry := detailEntry{ID: identifier, CachedAt: time.Now()}
	if data, err := m.codec.Marshal(entry); err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("skipping detail cache write; encode failed")
	} else if m.storeSet(ctx, key, data, m.cfg.DetailTTL) {
		m.trackKey(key, keyKindDetail)
	}

	return record, nil
}

// Clear deletes every cache entry this manager has written.
func (m *Manager[T]) Clear(ctx context.Context) error {
	return m.clearKinds(ctx, keyKindCollection, keyKindDetail)
}

// ClearCollections deletes the base collection entry and every suffixed
// collection entry this manager has written.
func (m *Manager[T]) ClearCollections(ctx context.Context) error {
	return m.clearKinds(ctx, keyKindCollection)
}

// ClearDetails deletes every detail entry this manager has written.
func (m *Manager[T]) ClearDetails(ctx context.Context) error {
	return m.clearKinds(ctx, keyKindDetail)
}

func (m *Manager[T]) clearKinds(ctx context.Context, kinds ...keyKind) error {
	wanted := func(kind keyKind) bool {
		for _, want := range kinds {
			if kind == want {
				return true
			}
		}
		return false
	}

	var keys []string
	m.keys.Range(func(key string, kind keyKind) bool {
		if wanted(kind) {
			keys = append(keys, key)
		}
		return true
	})
	if wanted(keyKindCollection) {
		// The base collection key may have been written by another process
		// sharing the store; clear it regardless of tracking.
		base := cache.CollectionKey(m.namespace, "")
		if _, tracked := m.keys.Load(base); !tracked {
			keys = append(keys, base)
		}
	}

	var firstErr error
	for _, key := range keys {
		if err := m.store.Delete(ctx, key); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		m.keys.Delete(key)
	}
	return firstErr
}

// invalidateAfterMutation implements the manager side of
// WithManagerInvalidation: drop the base collection entry, the detail entry
// of the mutated record when one can be identified, and any extra keys.
func (m *Manager[T]) invalidateAfterMutation(ctx context.Context, result any, additionalKeys []string) {
	m.storeDelete(ctx, cache.CollectionKey(m.namespace, ""))

	if record, ok := result.(T); ok {
		if id, err := m.identify(record); err == nil {
			m.storeDelete(ctx, cache.DetailKey(m.namespace, id))
		}
	} else if record, ok := result.(*T); ok && record != nil {
		if id, err := m.identify(*record); err == nil {
			m.storeDelete(ctx, cache.DetailKey(m.namespace, id))
		}
	}

	for _, key := range additionalKeys {
		m.storeDelete(ctx, key)
	}
}

func (m *Manager[T]) identify(record T) (any, error) {
	if m.cfg.Identifier != nil {
		return m.cfg.Identifier(record)
	}
	return IdentifierOf(record)
}

func (m *Manager[T]) notFound(identifier any) error {
	return errors.Wrapf(m.cfg.NotFound, "%s %s", m.namespace, cache.FormatIdentifier(identifier))
}

func (m *Manager[T]) trackKey(key string, kind keyKind) {
	m.keys.Store(key, kind)
}

// storeGet reads a key, failing open: a store error is logged and treated as
// a miss so an outage degrades to always hitting the data source instead of
// failing reads outright.
func (m *Manager[T]) storeGet(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("cache get failed, falling through to data source")
		return nil, false
	}
	return data, ok
}

// storeSet writes a key, failing open, and reports whether the write stuck.
func (m *Manager[T]) storeSet(ctx context.Context, key string, data []byte, ttl time.Duration) bool {
	if err := m.store.Set(ctx, key, data, ttl); err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("cache set failed, result served uncached")
		return false
	}
	return true
}

// storeDelete removes a key, fire-and-forget.
func (m *Manager[T]) storeDelete(ctx context.Context, key string) {
	if err := m.store.Delete(ctx, key); err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("cache delete failed, stale entry remains until TTL expiry")
		return
	}
	m.keys.Delete(key)
}
