// Package cache defines the key-value store contract consumed by the query
// cache, the cache key builder, and the entry codec.
//
// # Overview
//
// The package exports three small pieces:
//
//   - Store: a get/set-with-TTL/delete contract over raw bytes
//   - CollectionKey / DetailKey: the bit-for-bit key format shared with
//     external cache inspection tooling
//   - Codec: msgpack-based encoding for stored entries
//
// Two Store implementations ship with the module: an in-process store backed
// by sturdyc (NewMemoryStore) and a Redis-backed store (NewRedisStore) for
// deployments where several processes share one cache.
//
// # Key format
//
// Keys are derived from a per-record-type namespace:
//
//	CollectionKey("example", "")        // "example"
//	CollectionKey("example", "active")  // "example_active"
//	DetailKey("example", 1)             // "example_1"
//
// Namespaces must be unique across all managers sharing one Store; the
// builder does not enforce that, it is a caller contract. The same goes for
// suffix strings that could collide with rendered identifiers.
package cache
