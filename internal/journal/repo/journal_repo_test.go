package repo

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/oceanablv/moodq/internal/journal/entity"
)

func setupRepo(t *testing.T) *JournalRepo {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	r := NewJournalRepo(db)
	if err := r.EnsureTable(context.Background()); err != nil {
		t.Fatalf("ensure table: %v", err)
	}
	return r
}

func seed(t *testing.T, r *JournalRepo, id, userID int64, title string, createdAt time.Time) {
	t.Helper()
	q := r.db.Rebind(`INSERT INTO journals (id, user_id, title, content, tags, is_private, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if _, err := r.db.Exec(q, id, userID, title, "content", "", false, createdAt.UTC()); err != nil {
		t.Fatalf("seed journal: %v", err)
	}
}

func TestInsertThenList(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	j := &entity.Journal{ID: 1, UserID: 7, Title: "day one", Content: "it rained", Tags: "weather", IsPrivate: true}
	if err := r.Insert(ctx, j); err != nil {
		t.Fatalf("insert: %v", err)
	}

	list, err := r.ListByUser(ctx, 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 row, got %d", len(list))
	}
	got := list[0]
	if got.Title != "day one" || got.Content != "it rained" || got.Tags != "weather" || !got.IsPrivate {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}

	other, err := r.ListByUser(ctx, 8)
	if err != nil {
		t.Fatalf("list other user: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("journal leaked across users: %d rows", len(other))
	}
}

func TestListNewestFirst(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	seed(t, r, 1, 7, "oldest", base.AddDate(0, 0, -2))
	seed(t, r, 2, 7, "middle", base.AddDate(0, 0, -1))
	seed(t, r, 3, 7, "newest", base)

	list, err := r.ListByUser(ctx, 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(list))
	}
	if list[0].Title != "newest" || list[2].Title != "oldest" {
		t.Fatalf("expected newest-first order, got %q ... %q", list[0].Title, list[2].Title)
	}
}

func TestUpdateScopedByOwner(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	seed(t, r, 1, 7, "mine", time.Now())

	rows, err := r.Update(ctx, &entity.Journal{ID: 1, UserID: 8, Title: "stolen", Content: "x"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rows != 0 {
		t.Fatalf("cross-tenant update touched %d rows", rows)
	}

	rows, err = r.Update(ctx, &entity.Journal{ID: 1, UserID: 7, Title: "edited", Content: "better", Tags: "t", IsPrivate: true})
	if err != nil || rows != 1 {
		t.Fatalf("owner update: rows=%d err=%v", rows, err)
	}

	list, _ := r.ListByUser(ctx, 7)
	if list[0].Title != "edited" || !list[0].IsPrivate {
		t.Fatalf("update not persisted: %+v", list[0])
	}
}

func TestDeleteTwice(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	seed(t, r, 1, 7, "mine", time.Now())

	rows, err := r.Delete(ctx, 1, 7)
	if err != nil || rows != 1 {
		t.Fatalf("first delete: rows=%d err=%v", rows, err)
	}
	rows, err = r.Delete(ctx, 1, 7)
	if err != nil || rows != 0 {
		t.Fatalf("second delete: rows=%d err=%v", rows, err)
	}
}
