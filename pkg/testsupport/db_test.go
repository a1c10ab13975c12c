package testsupport

import (
	"context"
	"testing"
)

type widget struct {
	ID   string `bun:"id,pk"`
	Name string `bun:"name"`
}

func TestNewDBCreatesTables(t *testing.T) {
	db := NewDB(t, (*widget)(nil))

	MustInsert(t, db, &widget{ID: NewID(), Name: "a"}, &widget{ID: NewID(), Name: "b"})

	count, err := db.NewSelect().Model((*widget)(nil)).Count(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestMustDelete(t *testing.T) {
	db := NewDB(t, (*widget)(nil))

	w := &widget{ID: NewID(), Name: "a"}
	MustInsert(t, db, w)
	MustDelete(t, db, w)

	count, err := db.NewSelect().Model((*widget)(nil)).Count(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestNewDBIsolation(t *testing.T) {
	a := NewDB(t, (*widget)(nil))
	b := NewDB(t, (*widget)(nil))

	MustInsert(t, a, &widget{ID: NewID(), Name: "only in a"})

	count, err := b.NewSelect().Model((*widget)(nil)).Count(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("databases share state, count = %d", count)
	}
}
