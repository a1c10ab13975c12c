// Package querycache provides read-through caching for composable bun
// queries, keyed per record type.
//
// # Overview
//
// A Manager[T] sits between the application and a DataSource[T] and resolves
// collection and detail reads through a cache.Store. The core design choice
// is what gets stored: a collection entry holds the ordered identifier
// sequence satisfying the query at write time, never the materialized
// records. A cache hit is reconstituted into a query scoped to exactly those
// identifiers, so everything the caller chains onto it (filters, sorts)
// executes against the live data source and cached field values are never
// served, while the original predicate is not re-executed.
//
// # Key Features
//
//   - **Type-safe managers**: One Manager[T] per record type, generic over T
//   - **Identifier-sequence storage**: collection hits stay composable and
//     field reads stay fresh
//   - **Per-granularity TTLs**: long-lived list entries (24h default),
//     short-lived detail entries (1m default)
//   - **Invalidation wrappers**: higher-order functions deleting keys after
//     a mutation succeeds
//
// # Basic Usage
//
//	store, _ := cache.NewMemoryStore(cache.DefaultMemoryConfig())
//	source := bunsource.New[User](db)
//
//	users, err := querycache.New(source, store, querycache.DefaultConfig[User]())
//	if err != nil {
//		return err
//	}
//
//	// Collection fetch: cached under "user"
//	q, err := users.FetchCollection(ctx, "")
//	records, err := q.All(ctx)
//
//	// Suffixed, filtered fetch: cached under "user_active"
//	q, err = users.FetchCollection(ctx, "active", func(sq *bun.SelectQuery) *bun.SelectQuery {
//		return sq.Where("active = ?", true)
//	})
//
//	// Detail fetch: cached under "user_42"
//	rec, err := users.FetchDetail(ctx, 42, func(sq *bun.SelectQuery) *bun.SelectQuery {
//		return sq.Where("id = ?", 42)
//	})
//
// # What Is and Is Not Cached
//
// Only the exact (suffix, criteria) combination passed to FetchCollection is
// ever written to the store. Applying more criteria to the returned query
// runs live and is never cached. The cache cannot tell a suffix reused for a
// different filter apart from the original; keeping (suffix, criteria) pairs
// stable is the caller's contract.
//
// # Invalidation
//
//	createUser := querycache.WithManagerInvalidation(users, func(ctx context.Context) (User, error) {
//		return svc.Create(ctx, input)
//	})
//	record, err := createUser(ctx)
//
// The wrapped operation's result and failure pass through unchanged;
// invalidation only happens after success. Deletes are fire-and-forget: a
// failed delete leaves a stale entry to age out via TTL, with no retry and
// no compensating transaction.
//
// # Concurrency
//
// The package does no internal scheduling and takes no locks around cache
// population. Concurrent callers missing on one key each execute the query
// and each write the entry ("cache stampede"); the last writer's TTL wins.
//
// # Error Handling
//
// Data source failures propagate unchanged, with no retries anywhere in the
// package. Store failures fail open: a read error degrades to a miss, a
// write error to an uncached result, both logged. A detail fetch matching
// nothing reports the configured not-found error (ErrNotFound by default),
// on the first call and equally when a cached identifier turns out to have
// been deleted underneath the entry.
//
// # See Also
//
// For the store contract, key format and codec, see the cache package. For
// the bun-backed data source, see the bunsource package. For wiring, see
// pkg/di.
package querycache
