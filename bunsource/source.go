package bunsource

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-queryset-cache/querycache"
)

// Source adapts a *bun.DB to querycache.DataSource[T]. One Source per record
// type; it is stateless and safe for concurrent use.
type Source[T any] struct {
	db       *bun.DB
	idColumn string
	identify func(record T) (any, error)
}

// Option configures a Source at construction.
type Option[T any] func(*Source[T])

// WithIDColumn overrides the identifier column used by ByIdentifiers. The
// default is "id".
func WithIDColumn[T any](column string) Option[T] {
	return func(s *Source[T]) { s.idColumn = column }
}

// WithIdentifier overrides how a record's identifier is extracted when
// restoring cached ordering. The default reflects over the conventional ID
// fields.
func WithIdentifier[T any](fn func(record T) (any, error)) Option[T] {
	return func(s *Source[T]) { s.identify = fn }
}

// New creates a bun-backed data source for T.
func New[T any](db *bun.DB, opts ...Option[T]) *Source[T] {
	s := &Source[T]{
		db:       db,
		idColumn: "id",
		identify: func(record T) (any, error) { return querycache.IdentifierOf(record) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Query implements querycache.DataSource.
func (s *Source[T]) Query(relations []string, criteria ...querycache.Criteria) querycache.Query[T] {
	return &query[T]{
		src:       s,
		relations: append([]string(nil), relations...),
		criteria:  append([]querycache.Criteria(nil), criteria...),
	}
}

// QueryOne implements querycache.DataSource. When nothing matches it reports
// querycache.ErrNotFound.
func (s *Source[T]) QueryOne(ctx context.Context, relations []string, criteria ...querycache.Criteria) (T, error) {
	var record T

	sel := s.db.NewSelect().Model(&record)
	for _, rel := range relations {
		sel = sel.Relation(rel)
	}
	for _, cr := range criteria {
		sel = cr(sel)
	}

	if err := sel.Limit(1).Scan(ctx); err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, errors.WithStack(querycache.ErrNotFound)
		}
		return zero, errors.Wrap(err, "bunsource: select one")
	}
	return record, nil
}
