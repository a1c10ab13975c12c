package querycache

import "context"

// cachedResult is the Query returned by a collection miss: enumeration yields
// the records already materialized while filling the cache, without another
// round trip, while any chaining falls through to the live identifier-scoped
// query.
type cachedResult[T any] struct {
	records []T
	live    Query[T]
}

func (r *cachedResult[T]) Apply(criteria ...Criteria) Query[T] {
	return r.live.Apply(criteria...)
}

func (r *cachedResult[T]) ByIdentifiers(identifiers ...any) Query[T] {
	return r.live.ByIdentifiers(identifiers...)
}

func (r *cachedResult[T]) All(ctx context.Context) ([]T, error) {
	return r.records, nil
}

func (r *cachedResult[T]) Count(ctx context.Context) (int, error) {
	return len(r.records), nil
}
