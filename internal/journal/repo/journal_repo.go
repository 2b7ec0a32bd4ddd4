package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/oceanablv/moodq/internal/journal/entity"
)

// JournalRepo provides data access for the journals table using sqlx.
type JournalRepo struct {
	db *sqlx.DB
}

func NewJournalRepo(db *sqlx.DB) *JournalRepo { return &JournalRepo{db: db} }

// EnsureTable creates the journals table if it does not exist (idempotent).
func (r *JournalRepo) EnsureTable(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS journals (
		id BIGINT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		title VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		tags VARCHAR(255) NOT NULL DEFAULT '',
		is_private BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Insert writes a new journal row; created_at is set by the database.
func (r *JournalRepo) Insert(ctx context.Context, j *entity.Journal) error {
	q := r.db.Rebind(`INSERT INTO journals (id, user_id, title, content, tags, is_private, created_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`)
	_, err := r.db.ExecContext(ctx, q, j.ID, j.UserID, j.Title, j.Content, j.Tags, j.IsPrivate)
	return err
}

// Update mutates a row scoped by (id, user_id) and returns rows affected.
func (r *JournalRepo) Update(ctx context.Context, j *entity.Journal) (int64, error) {
	q := r.db.Rebind(`UPDATE journals SET title = ?, content = ?, tags = ?, is_private = ? WHERE id = ? AND user_id = ?`)
	res, err := r.db.ExecContext(ctx, q, j.Title, j.Content, j.Tags, j.IsPrivate, j.ID, j.UserID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a row scoped by (id, user_id) and returns rows affected.
func (r *JournalRepo) Delete(ctx context.Context, id, userID int64) (int64, error) {
	q := r.db.Rebind(`DELETE FROM journals WHERE id = ? AND user_id = ?`)
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByUser returns a user's journals newest-first (recency feed).
func (r *JournalRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.Journal, error) {
	journals := []*entity.Journal{}
	q := r.db.Rebind(`SELECT id, user_id, title, content, tags, is_private, created_at
		FROM journals WHERE user_id = ? ORDER BY created_at DESC`)
	if err := r.db.SelectContext(ctx, &journals, q, userID); err != nil {
		return nil, err
	}
	return journals, nil
}
