package querycache

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// ErrNotFound is the sentinel reported by DataSource.QueryOne when no record
// matches. Managers translate it into their configured not-found error.
var ErrNotFound = errors.New("record not found")

// Criteria narrows or reorders a select query. It is the composition unit the
// whole package works in terms of: fetch operations accept criteria, and the
// Query handles returned by collection fetches accept more of them.
type Criteria func(*bun.SelectQuery) *bun.SelectQuery

// Query is a lazy, further-composable handle over a collection of T.
// Execution is deferred until All or Count; chaining never touches the cache,
// so criteria applied to a reconstructed query always run against live data.
type Query[T any] interface {
	// Apply returns a new Query with the extra criteria appended.
	Apply(criteria ...Criteria) Query[T]

	// ByIdentifiers returns a new Query scoped to exactly the given
	// identifiers, preserving their order on enumeration as long as no
	// further criteria are chained.
	ByIdentifiers(identifiers ...any) Query[T]

	// All enumerates the query.
	All(ctx context.Context) ([]T, error)

	// Count reports the number of matching records without materializing
	// them.
	Count(ctx context.Context) (int, error)
}

// DataSource produces composable queries over the records of one type. The
// bunsource package provides the implementation used in production; tests
// substitute fakes.
type DataSource[T any] interface {
	// Query builds a lazy collection query. Each relation name is an
	// eager-load hint resolved by the implementation in the same round trip.
	Query(relations []string, criteria ...Criteria) Query[T]

	// QueryOne executes immediately and returns the single matching record,
	// or an error wrapping ErrNotFound when there is none.
	QueryOne(ctx context.Context, relations []string, criteria ...Criteria) (T, error)
}
