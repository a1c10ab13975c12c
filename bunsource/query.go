package bunsource

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-queryset-cache/cache"
	"github.com/goliatone/go-queryset-cache/querycache"
)

// query is the lazy bun-backed querycache.Query implementation. Values are
// immutable: every composition method clones, so a handle can be branched
// safely.
type query[T any] struct {
	src       *Source[T]
	relations []string
	criteria  []querycache.Criteria

	// byIDs scopes the query to exactly ids. When set and no further
	// criteria were chained, enumeration preserves the ids order rather
	// than whatever order the database returns.
	byIDs bool
	ids   []any
}

func (q *query[T]) clone() *query[T] {
	cp := *q
	cp.criteria = append([]querycache.Criteria(nil), q.criteria...)
	cp.ids = append([]any(nil), q.ids...)
	return &cp
}

func (q *query[T]) Apply(criteria ...querycache.Criteria) querycache.Query[T] {
	cp := q.clone()
	cp.criteria = append(cp.criteria, criteria...)
	return cp
}

func (q *query[T]) ByIdentifiers(identifiers ...any) querycache.Query[T] {
	cp := q.clone()
	cp.byIDs = true
	cp.ids = append([]any(nil), identifiers...)
	return cp
}

func (q *query[T]) All(ctx context.Context) ([]T, error) {
	if q.byIDs && len(q.ids) == 0 {
		// IN () is not valid SQL; an empty identifier set is an empty result.
		return []T{}, nil
	}

	var records []T
	sel := q.src.db.NewSelect().Model(&records)
	for _, rel := range q.relations {
		sel = sel.Relation(rel)
	}
	if q.byIDs {
		sel = sel.Where("? IN (?)", bun.Ident(q.src.idColumn), bun.In(q.ids))
	}
	for _, cr := range q.criteria {
		sel = cr(sel)
	}

	if err := sel.Scan(ctx); err != nil {
		return nil, errors.Wrap(err, "bunsource: select")
	}

	if q.byIDs && len(q.criteria) == 0 {
		q.restoreOrder(records)
	}
	return records, nil
}

func (q *query[T]) Count(ctx context.Context) (int, error) {
	if q.byIDs && len(q.ids) == 0 {
		return 0, nil
	}

	var model T
	sel := q.src.db.NewSelect().Model(&model)
	if q.byIDs {
		sel = sel.Where("? IN (?)", bun.Ident(q.src.idColumn), bun.In(q.ids))
	}
	for _, cr := range q.criteria {
		sel = cr(sel)
	}

	n, err := sel.Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "bunsource: count")
	}
	return n, nil
}

// restoreOrder sorts records into the identifier sequence the query was
// scoped to. The database's re-execution order is not deterministic; the
// recorded sequence is.
func (q *query[T]) restoreOrder(records []T) {
	pos := make(map[string]int, len(q.ids))
	for i, id := range q.ids {
		pos[cache.FormatIdentifier(id)] = i
	}

	position := func(record T) int {
		id, err := q.src.identify(record)
		if err != nil {
			return len(pos)
		}
		if p, ok := pos[cache.FormatIdentifier(id)]; ok {
			return p
		}
		return len(pos)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return position(records[i]) < position(records[j])
	})
}
