package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/oceanablv/moodq/internal/mood/entity"
)

// MoodRepo provides data access for the moods table using sqlx.
type MoodRepo struct {
	db *sqlx.DB
}

func NewMoodRepo(db *sqlx.DB) *MoodRepo { return &MoodRepo{db: db} }

// EnsureTable creates the moods table if it does not exist (idempotent).
func (r *MoodRepo) EnsureTable(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS moods (
		id BIGINT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		mood_label VARCHAR(64) NOT NULL,
		mood_intensity DOUBLE PRECISION NOT NULL DEFAULT 0,
		note TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Insert writes a new mood row; created_at is set by the database.
func (r *MoodRepo) Insert(ctx context.Context, m *entity.Mood) error {
	q := r.db.Rebind(`INSERT INTO moods (id, user_id, mood_label, mood_intensity, note, created_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`)
	_, err := r.db.ExecContext(ctx, q, m.ID, m.UserID, m.Label, m.Intensity, m.Note)
	return err
}

// Update mutates a row scoped by (id, user_id) and returns rows affected.
// Zero rows means the pair matched nothing; the caller distinguishes that
// from an execution error.
func (r *MoodRepo) Update(ctx context.Context, m *entity.Mood) (int64, error) {
	q := r.db.Rebind(`UPDATE moods SET mood_label = ?, mood_intensity = ?, note = ? WHERE id = ? AND user_id = ?`)
	res, err := r.db.ExecContext(ctx, q, m.Label, m.Intensity, m.Note, m.ID, m.UserID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a row scoped by (id, user_id) and returns rows affected.
func (r *MoodRepo) Delete(ctx context.Context, id, userID int64) (int64, error) {
	q := r.db.Rebind(`DELETE FROM moods WHERE id = ? AND user_id = ?`)
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListSince returns a user's moods ordered oldest-first (the insights feed
// drives a trend chart). A nil cutoff means no time filter.
func (r *MoodRepo) ListSince(ctx context.Context, userID int64, since *time.Time) ([]*entity.Mood, error) {
	moods := []*entity.Mood{}
	if since == nil {
		q := r.db.Rebind(`SELECT id, user_id, mood_label, mood_intensity, note, created_at
			FROM moods WHERE user_id = ? ORDER BY created_at ASC`)
		if err := r.db.SelectContext(ctx, &moods, q, userID); err != nil {
			return nil, err
		}
		return moods, nil
	}
	q := r.db.Rebind(`SELECT id, user_id, mood_label, mood_intensity, note, created_at
		FROM moods WHERE user_id = ? AND created_at >= ? ORDER BY created_at ASC`)
	if err := r.db.SelectContext(ctx, &moods, q, userID, *since); err != nil {
		return nil, err
	}
	return moods, nil
}

// Count returns the user's total entry count.
func (r *MoodRepo) Count(ctx context.Context, userID int64) (int64, error) {
	var n int64
	q := r.db.Rebind(`SELECT COUNT(*) FROM moods WHERE user_id = ?`)
	if err := r.db.GetContext(ctx, &n, q, userID); err != nil {
		return 0, err
	}
	return n, nil
}

// Latest returns the label and intensity of the most recent entry, or
// sql.ErrNoRows when the user has none.
func (r *MoodRepo) Latest(ctx context.Context, userID int64) (string, float64, error) {
	var row struct {
		Label     string  `db:"mood_label"`
		Intensity float64 `db:"mood_intensity"`
	}
	q := r.db.Rebind(`SELECT mood_label, mood_intensity FROM moods WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`)
	if err := r.db.GetContext(ctx, &row, q, userID); err != nil {
		return "", 0, err
	}
	return row.Label, row.Intensity, nil
}

// StreakDays counts distinct calendar days with at least one entry.
// DATE() is shared by MySQL, Postgres, and SQLite.
func (r *MoodRepo) StreakDays(ctx context.Context, userID int64) (int64, error) {
	var n int64
	q := r.db.Rebind(`SELECT COUNT(DISTINCT DATE(created_at)) FROM moods WHERE user_id = ?`)
	err := r.db.GetContext(ctx, &n, q, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}
