package repo

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/oceanablv/moodq/internal/mood/entity"
)

func setupRepo(t *testing.T) *MoodRepo {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	r := NewMoodRepo(db)
	if err := r.EnsureTable(context.Background()); err != nil {
		t.Fatalf("ensure table: %v", err)
	}
	return r
}

// seed inserts a row with an explicit created_at so time-window tests have
// something older than "now".
func seed(t *testing.T, r *MoodRepo, id, userID int64, label string, intensity float64, createdAt time.Time) {
	t.Helper()
	q := r.db.Rebind(`INSERT INTO moods (id, user_id, mood_label, mood_intensity, note, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := r.db.Exec(q, id, userID, label, intensity, "", createdAt.UTC()); err != nil {
		t.Fatalf("seed mood: %v", err)
	}
}

func TestInsertThenList(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	before, err := r.ListSince(ctx, 7, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(before) != 0 {
		t.Fatalf("expected empty list before insert, got %d rows", len(before))
	}

	m := &entity.Mood{ID: 1, UserID: 7, Label: "happy", Intensity: 0.8, Note: "sunny"}
	if err := r.Insert(ctx, m); err != nil {
		t.Fatalf("insert: %v", err)
	}

	after, err := r.ListSince(ctx, 7, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(after) != 1 {
		t.Fatalf("expected 1 row, got %d", len(after))
	}
	got := after[0]
	if got.Label != "happy" || got.Intensity != 0.8 || got.Note != "sunny" || got.UserID != 7 {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestUpdateScopedByOwner(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	seed(t, r, 1, 7, "calm", 0.4, time.Now())

	// wrong owner must not see or mutate the row
	rows, err := r.Update(ctx, &entity.Mood{ID: 1, UserID: 8, Label: "hijacked", Intensity: 1})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rows != 0 {
		t.Fatalf("cross-tenant update touched %d rows", rows)
	}

	rows, err = r.Update(ctx, &entity.Mood{ID: 1, UserID: 7, Label: "tense", Intensity: 0.9, Note: "deadline"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rows != 1 {
		t.Fatalf("owner update touched %d rows", rows)
	}

	list, _ := r.ListSince(ctx, 7, nil)
	if list[0].Label != "tense" || list[0].Intensity != 0.9 {
		t.Fatalf("update not persisted: %+v", list[0])
	}
}

func TestDeleteTwice(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	seed(t, r, 1, 7, "happy", 0.8, time.Now())

	rows, err := r.Delete(ctx, 1, 7)
	if err != nil || rows != 1 {
		t.Fatalf("first delete: rows=%d err=%v", rows, err)
	}
	rows, err = r.Delete(ctx, 1, 7)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if rows != 0 {
		t.Fatalf("second delete touched %d rows", rows)
	}

	list, _ := r.ListSince(ctx, 7, nil)
	if len(list) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(list))
	}
}

func TestListSinceFiltersAndOrders(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	seed(t, r, 1, 7, "old", 0.2, now.AddDate(0, 0, -40))
	seed(t, r, 2, 7, "recent", 0.5, now.AddDate(0, 0, -3))
	seed(t, r, 3, 7, "today", 0.7, now)
	seed(t, r, 4, 9, "other user", 0.1, now)

	cutoff := now.AddDate(0, 0, -7)
	week, err := r.ListSince(ctx, 7, &cutoff)
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(week) != 2 {
		t.Fatalf("expected 2 rows inside the window, got %d", len(week))
	}
	if week[0].Label != "recent" || week[1].Label != "today" {
		t.Fatalf("expected ascending order, got %q then %q", week[0].Label, week[1].Label)
	}

	all, err := r.ListSince(ctx, 7, nil)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rows unfiltered, got %d", len(all))
	}
	// filtered result is strictly contained in the unfiltered one
	ids := map[int64]bool{}
	for _, m := range all {
		ids[m.ID] = true
	}
	for _, m := range week {
		if !ids[m.ID] {
			t.Fatalf("windowed row %d missing from full listing", m.ID)
		}
	}
}

func TestAggregates(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	// fixed times so the day boundaries are unambiguous
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	total, err := r.Count(ctx, 7)
	if err != nil || total != 0 {
		t.Fatalf("empty count: %d err=%v", total, err)
	}
	if _, _, err := r.Latest(ctx, 7); err == nil {
		t.Fatal("latest on empty set should report no rows")
	}
	streak, err := r.StreakDays(ctx, 7)
	if err != nil || streak != 0 {
		t.Fatalf("empty streak: %d err=%v", streak, err)
	}

	// two entries on one day, one on another
	seed(t, r, 1, 7, "morning", 0.3, base.AddDate(0, 0, -1).Add(-2*time.Hour))
	seed(t, r, 2, 7, "evening", 0.6, base.AddDate(0, 0, -1))
	seed(t, r, 3, 7, "latest", 0.9, base)

	total, err = r.Count(ctx, 7)
	if err != nil || total != 3 {
		t.Fatalf("count: %d err=%v", total, err)
	}

	label, intensity, err := r.Latest(ctx, 7)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if label != "latest" || intensity != 0.9 {
		t.Fatalf("latest mismatch: %q %v", label, intensity)
	}

	streak, err = r.StreakDays(ctx, 7)
	if err != nil {
		t.Fatalf("streak: %v", err)
	}
	if streak != 2 {
		t.Fatalf("expected 2 distinct days, got %d", streak)
	}
}
