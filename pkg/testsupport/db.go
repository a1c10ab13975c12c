// Package testsupport provides the shared SQLite-backed bun harness used by
// the integration tests.
package testsupport

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewDB opens an isolated in-memory SQLite database wrapped in bun and
// creates tables for the given models. Models are passed as typed nil
// pointers, e.g. (*User)(nil). The connection pool is pinned to a single
// connection so the in-memory database survives for the whole test.
func NewDB(t testing.TB, models ...any) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("failed to create table for %T: %v", model, err)
		}
	}
	return db
}

// MustInsert inserts the given records, failing the test on error. Records
// are passed as pointers.
func MustInsert(t testing.TB, db *bun.DB, records ...any) {
	t.Helper()

	ctx := context.Background()
	for _, record := range records {
		if _, err := db.NewInsert().Model(record).Exec(ctx); err != nil {
			t.Fatalf("failed to insert %T: %v", record, err)
		}
	}
}

// MustDelete deletes the given records by primary key, failing the test on
// error.
func MustDelete(t testing.TB, db *bun.DB, records ...any) {
	t.Helper()

	ctx := context.Background()
	for _, record := range records {
		if _, err := db.NewDelete().Model(record).WherePK().Exec(ctx); err != nil {
			t.Fatalf("failed to delete %T: %v", record, err)
		}
	}
}

// NewID returns a fresh UUID string for seeding records.
func NewID() string {
	return uuid.New().String()
}
