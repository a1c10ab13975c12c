package di

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-queryset-cache/bunsource"
	"github.com/goliatone/go-queryset-cache/pkg/testsupport"
	"github.com/goliatone/go-queryset-cache/querycache"
)

type Post struct {
	bun.BaseModel `bun:"table:posts"`

	ID     int64  `bun:"id,pk,autoincrement"`
	Title  string `bun:"title,notnull"`
	Status string `bun:"status,notnull,default:'draft'"`
}

// selectCounter is a bun query hook counting SELECT statements, so the tests
// can assert how often the cache actually reached the database.
type selectCounter struct {
	mu      sync.Mutex
	selects int
}

func (c *selectCounter) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (c *selectCounter) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(event.Query)), "SELECT") {
		c.mu.Lock()
		c.selects++
		c.mu.Unlock()
	}
}

func (c *selectCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selects
}

func published(sq *bun.SelectQuery) *bun.SelectQuery {
	return sq.Where("status = ?", "published")
}

func byID(id int64) querycache.Criteria {
	return func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.Where("id = ?", id)
	}
}

type harness struct {
	db      *bun.DB
	counter *selectCounter
	manager *querycache.Manager[Post]
}

func newHarness(t *testing.T, cfg querycache.Config[Post]) *harness {
	t.Helper()

	db := testsupport.NewDB(t, (*Post)(nil))
	counter := &selectCounter{}
	db.AddQueryHook(counter)

	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	manager, err := NewManager[Post](container, bunsource.New[Post](db), cfg)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	return &harness{db: db, counter: counter, manager: manager}
}

func TestIntegrationCollectionReadThrough(t *testing.T) {
	ctx := context.Background()

	cfg := querycache.DefaultConfig[Post]()
	cfg.Namespace = "example"
	h := newHarness(t, cfg)

	testsupport.MustInsert(t, h.db,
		&Post{Title: "a", Status: "published"},
		&Post{Title: "b", Status: "draft"},
		&Post{Title: "c", Status: "published"},
	)

	q, err := h.manager.FetchCollection(ctx, "published", published)
	if err != nil {
		t.Fatalf("FetchCollection failed: %v", err)
	}
	posts, err := q.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	if h.counter.count() != 1 {
		t.Errorf("selects = %d, want 1 after the miss", h.counter.count())
	}

	// A hit only touches the database when the returned query is enumerated,
	// and then only by identifier.
	q, err = h.manager.FetchCollection(ctx, "published", published)
	if err != nil {
		t.Fatalf("second FetchCollection failed: %v", err)
	}
	if h.counter.count() != 1 {
		t.Errorf("selects = %d, want 1 after the hit", h.counter.count())
	}

	posts, err = q.All(ctx)
	if err != nil {
		t.Fatalf("hit All failed: %v", err)
	}
	want := []string{"a", "c"}
	if len(posts) != len(want) {
		t.Fatalf("hit returned %d posts, want %d", len(posts), len(want))
	}
	for i, p := range posts {
		if p.Title != want[i] {
			t.Errorf("posts[%d].Title = %q, want %q", i, p.Title, want[i])
		}
	}
}

func TestIntegrationCollectionTTLExpiry(t *testing.T) {
	ctx := context.Background()

	cfg := querycache.DefaultConfig[Post]()
	cfg.Namespace = "example"
	cfg.ListTTL = time.Second
	h := newHarness(t, cfg)

	testsupport.MustInsert(t, h.db, &Post{Title: "a", Status: "published"})

	if _, err := h.manager.FetchCollection(ctx, ""); err != nil {
		t.Fatalf("FetchCollection failed: %v", err)
	}
	if h.counter.count() != 1 {
		t.Fatalf("selects = %d, want 1", h.counter.count())
	}

	if _, err := h.manager.FetchCollection(ctx, ""); err != nil {
		t.Fatalf("FetchCollection failed: %v", err)
	}
	if h.counter.count() != 1 {
		t.Errorf("selects = %d, want 1 before expiry", h.counter.count())
	}

	time.Sleep(1100 * time.Millisecond)

	if _, err := h.manager.FetchCollection(ctx, ""); err != nil {
		t.Fatalf("FetchCollection failed: %v", err)
	}
	if h.counter.count() != 2 {
		t.Errorf("selects = %d, want 2 after expiry", h.counter.count())
	}
}

func TestIntegrationChainedCriteriaRunLive(t *testing.T) {
	ctx := context.Background()

	cfg := querycache.DefaultConfig[Post]()
	cfg.Namespace = "example"
	h := newHarness(t, cfg)

	testsupport.MustInsert(t, h.db,
		&Post{Title: "a", Status: "published"},
		&Post{Title: "b", Status: "published"},
	)

	q, err := h.manager.FetchCollection(ctx, "published", published)
	if err != nil {
		t.Fatalf("FetchCollection failed: %v", err)
	}

	refined, err := q.Apply(func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.Where("title = ?", "b")
	}).All(ctx)
	if err != nil {
		t.Fatalf("refined All failed: %v", err)
	}
	if len(refined) != 1 || refined[0].Title != "b" {
		t.Fatalf("refined query returned %d posts, want just %q", len(refined), "b")
	}

	// The refinement is never written back; the suffixed entry still holds
	// the full collection.
	q, err = h.manager.FetchCollection(ctx, "published", published)
	if err != nil {
		t.Fatalf("FetchCollection failed: %v", err)
	}
	posts, err := q.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("cached collection holds %d posts, want 2", len(posts))
	}
}

func TestIntegrationDetailLifecycle(t *testing.T) {
	ctx := context.Background()

	cfg := querycache.DefaultConfig[Post]()
	cfg.Namespace = "example"
	h := newHarness(t, cfg)

	// Miss on an absent record: configured not-found, nothing cached.
	if _, err := h.manager.FetchDetail(ctx, int64(1), byID(1)); !errors.Is(err, querycache.ErrNotFound) {
		t.Fatalf("error = %v, want querycache.ErrNotFound", err)
	}

	post := &Post{Title: "a", Status: "published"}
	testsupport.MustInsert(t, h.db, post)

	got, err := h.manager.FetchDetail(ctx, post.ID, byID(post.ID))
	if err != nil {
		t.Fatalf("FetchDetail failed: %v", err)
	}
	if got.Title != "a" {
		t.Errorf("got.Title = %q, want %q", got.Title, "a")
	}

	// A hit re-fetches by identifier, so a concurrent update is visible
	// without waiting out the TTL.
	if _, err := h.db.NewUpdate().Model(post).Set("title = ?", "a2").WherePK().Exec(ctx); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, err = h.manager.FetchDetail(ctx, post.ID, byID(post.ID))
	if err != nil {
		t.Fatalf("hit FetchDetail failed: %v", err)
	}
	if got.Title != "a2" {
		t.Errorf("got.Title = %q, want %q (field reads are never stale)", got.Title, "a2")
	}

	// Deleting the record underneath the entry turns the next hit into the
	// configured not-found.
	testsupport.MustDelete(t, h.db, post)
	if _, err := h.manager.FetchDetail(ctx, post.ID, byID(post.ID)); !errors.Is(err, querycache.ErrNotFound) {
		t.Errorf("error = %v, want querycache.ErrNotFound after delete", err)
	}
}

func TestIntegrationMutationInvalidation(t *testing.T) {
	ctx := context.Background()

	cfg := querycache.DefaultConfig[Post]()
	cfg.Namespace = "example"
	h := newHarness(t, cfg)

	post := &Post{Title: "a", Status: "published"}
	testsupport.MustInsert(t, h.db, post)

	if _, err := h.manager.FetchCollection(ctx, ""); err != nil {
		t.Fatalf("FetchCollection failed: %v", err)
	}
	if _, err := h.manager.FetchDetail(ctx, post.ID, byID(post.ID)); err != nil {
		t.Fatalf("FetchDetail failed: %v", err)
	}
	before := h.counter.count()

	update := querycache.WithManagerInvalidation(h.manager, func(ctx context.Context) (Post, error) {
		post.Title = "renamed"
		if _, err := h.db.NewUpdate().Model(post).Column("title").WherePK().Exec(ctx); err != nil {
			return Post{}, err
		}
		return *post, nil
	})

	if _, err := update(ctx); err != nil {
		t.Fatalf("update op failed: %v", err)
	}

	// Both granularities recompute after invalidation.
	if _, err := h.manager.FetchCollection(ctx, ""); err != nil {
		t.Fatalf("FetchCollection after invalidation failed: %v", err)
	}
	got, err := h.manager.FetchDetail(ctx, post.ID, byID(post.ID))
	if err != nil {
		t.Fatalf("FetchDetail after invalidation failed: %v", err)
	}
	if got.Title != "renamed" {
		t.Errorf("got.Title = %q, want %q", got.Title, "renamed")
	}
	if h.counter.count() <= before {
		t.Error("invalidated entries should have been recomputed from the database")
	}
}
