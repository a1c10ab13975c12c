package querycache

import "time"

// collectionEntry is the stored representation of a collection fetch: the
// ordered identifier sequence satisfying the query at write time, never the
// materialized records. Reconstituting from identifiers keeps every field
// read fresh while still skipping re-execution of the original predicate.
type collectionEntry struct {
	IDs      []any     `msgpack:"ids"`
	Suffix   string    `msgpack:"suffix"`
	CachedAt time.Time `msgpack:"cached_at"`
}

// detailEntry records that the identifier satisfied the detail criteria at
// write time. Hits re-fetch by identifier so a record deleted underneath the
// cache still surfaces as not found.
type detailEntry struct {
	ID       any       `msgpack:"id"`
	CachedAt time.Time `msgpack:"cached_at"`
}
