package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/oceanablv/moodq/internal/account/entity"
	journalrepo "github.com/oceanablv/moodq/internal/journal/repo"
	moodrepo "github.com/oceanablv/moodq/internal/mood/repo"
)

func setupRepo(t *testing.T) (*UserRepo, *sqlx.DB) {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	r := NewUserRepo(db)
	if err := r.EnsureTable(ctx); err != nil {
		t.Fatalf("ensure account tables: %v", err)
	}
	// the deletion cascade touches moods and journals too
	if err := moodrepo.NewMoodRepo(db).EnsureTable(ctx); err != nil {
		t.Fatalf("ensure moods table: %v", err)
	}
	if err := journalrepo.NewJournalRepo(db).EnsureTable(ctx); err != nil {
		t.Fatalf("ensure journals table: %v", err)
	}
	return r, db
}

func count(t *testing.T, db *sqlx.DB, table string, userID int64) int {
	t.Helper()
	var n int
	col := "user_id"
	if table == "users" {
		col = "id"
	}
	if err := db.Get(&n, db.Rebind(`SELECT COUNT(*) FROM `+table+` WHERE `+col+` = ?`), userID); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestCreateWithGoals(t *testing.T) {
	r, _ := setupRepo(t)
	ctx := context.Background()

	u := &entity.User{ID: 100, Name: "Ana", Email: "ana@example.com", Password: "secret"}
	goals := []*entity.Goal{
		{ID: 101, UserID: 100, Title: "sleep better"},
		{ID: 102, UserID: 100, Title: "exercise"},
	}
	if err := r.CreateWithGoals(ctx, u, goals); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := r.GetByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != 100 || got.Name != "Ana" || got.Password != "secret" {
		t.Fatalf("user roundtrip mismatch: %+v", got)
	}

	list, err := r.ListGoals(ctx, 100)
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	if len(list) != 2 || list[0].Title != "sleep better" || list[1].Title != "exercise" {
		t.Fatalf("goals mismatch: %+v", list)
	}
}

func TestDuplicateEmailLeavesNoTrace(t *testing.T) {
	r, db := setupRepo(t)
	ctx := context.Background()

	first := &entity.User{ID: 100, Name: "Ana", Email: "ana@example.com", Password: "a"}
	if err := r.CreateWithGoals(ctx, first, nil); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := &entity.User{ID: 200, Name: "Impostor", Email: "ana@example.com", Password: "b"}
	err := r.CreateWithGoals(ctx, second, []*entity.Goal{{ID: 201, UserID: 200, Title: "takeover"}})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	var users int
	if err := db.Get(&users, `SELECT COUNT(*) FROM users`); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 1 {
		t.Fatalf("duplicate registration left %d user rows", users)
	}
	if n := count(t, db, "user_goals", 200); n != 0 {
		t.Fatalf("duplicate registration left %d goal rows", n)
	}
}

func TestEmailExists(t *testing.T) {
	r, _ := setupRepo(t)
	ctx := context.Background()

	ok, err := r.EmailExists(ctx, "nobody@example.com")
	if err != nil || ok {
		t.Fatalf("unknown email: ok=%v err=%v", ok, err)
	}

	u := &entity.User{ID: 100, Name: "Ana", Email: "ana@example.com", Password: "a"}
	if err := r.CreateWithGoals(ctx, u, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	ok, err = r.EmailExists(ctx, "ana@example.com")
	if err != nil || !ok {
		t.Fatalf("known email: ok=%v err=%v", ok, err)
	}
}

func TestUpdatePasswordByEmail(t *testing.T) {
	r, _ := setupRepo(t)
	ctx := context.Background()

	u := &entity.User{ID: 100, Name: "Ana", Email: "ana@example.com", Password: "old"}
	if err := r.CreateWithGoals(ctx, u, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	rows, err := r.UpdatePasswordByEmail(ctx, "ana@example.com", "new")
	if err != nil || rows != 1 {
		t.Fatalf("update password: rows=%d err=%v", rows, err)
	}
	got, _ := r.GetByEmail(ctx, "ana@example.com")
	if got.Password != "new" {
		t.Fatalf("password not overwritten: %q", got.Password)
	}

	rows, err = r.UpdatePasswordByEmail(ctx, "nobody@example.com", "x")
	if err != nil || rows != 0 {
		t.Fatalf("unknown email update: rows=%d err=%v", rows, err)
	}
}

func TestDeleteCascadeRemovesEverything(t *testing.T) {
	r, db := setupRepo(t)
	ctx := context.Background()

	u := &entity.User{ID: 100, Name: "Ana", Email: "ana@example.com", Password: "a"}
	goals := []*entity.Goal{{ID: 101, UserID: 100, Title: "sleep better"}}
	if err := r.CreateWithGoals(ctx, u, goals); err != nil {
		t.Fatalf("create: %v", err)
	}
	mustExec(t, db, `INSERT INTO moods (id, user_id, mood_label, mood_intensity, note) VALUES (1, 100, 'happy', 0.8, '')`)
	mustExec(t, db, `INSERT INTO journals (id, user_id, title, content, tags, is_private) VALUES (2, 100, 't', 'c', '', 0)`)
	mustExec(t, db, `INSERT INTO dass_results (id, user_id) VALUES (3, 100)`)
	mustExec(t, db, `INSERT INTO practice_logs (id, user_id) VALUES (4, 100)`)

	if err := r.DeleteCascade(ctx, 100); err != nil {
		t.Fatalf("delete cascade: %v", err)
	}

	for _, table := range []string{"users", "user_goals", "moods", "journals", "dass_results", "practice_logs"} {
		if n := count(t, db, table, 100); n != 0 {
			t.Fatalf("%s still holds %d rows after cascade", table, n)
		}
	}
}

func TestDeleteCascadeUnknownUserRollsBack(t *testing.T) {
	r, db := setupRepo(t)
	ctx := context.Background()

	u := &entity.User{ID: 100, Name: "Ana", Email: "ana@example.com", Password: "a"}
	if err := r.CreateWithGoals(ctx, u, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	mustExec(t, db, `INSERT INTO moods (id, user_id, mood_label, mood_intensity, note) VALUES (1, 100, 'happy', 0.8, '')`)

	err := r.DeleteCascade(ctx, 999)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for unknown user, got %v", err)
	}

	// the known user's rows are untouched
	if n := count(t, db, "users", 100); n != 1 {
		t.Fatal("user row vanished after failed cascade")
	}
	if n := count(t, db, "moods", 100); n != 1 {
		t.Fatal("mood row vanished after failed cascade")
	}
}

func mustExec(t *testing.T, db *sqlx.DB, query string) {
	t.Helper()
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
