// Package bunsource adapts the uptrace/bun query builder to the
// querycache.DataSource contract.
//
// A Source[T] builds lazy select queries over one bun model. Eager-load
// hints map onto bun relations, criteria are plain
// func(*bun.SelectQuery) *bun.SelectQuery transforms, and ByIdentifiers
// compiles to a WHERE ... IN over the configured identifier column.
//
//	source := bunsource.New[User](db)
//	q := source.Query([]string{"Profile"}, func(sq *bun.SelectQuery) *bun.SelectQuery {
//		return sq.Where("active = ?", true)
//	})
//	users, err := q.All(ctx)
package bunsource
