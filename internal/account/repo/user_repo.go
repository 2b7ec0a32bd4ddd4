package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/oceanablv/moodq/internal/account/entity"
)

// ErrEmailTaken is returned when a registration hits an existing email.
var ErrEmailTaken = errors.New("email already registered")

// UserRepo provides data access for the users and user_goals tables using
// sqlx. Queries are written with ? placeholders and rebound per driver.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// EnsureTable creates the account-owned tables if they do not exist
// (idempotent). dass_results and practice_logs carry no CRUD surface here
// but must exist for the account deletion cascade.
// This is a convenience for early development; prefer migrations in production.
func (r *UserRepo) EnsureTable(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS user_goals (
			id BIGINT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			goal_title VARCHAR(255) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS dass_results (
			id BIGINT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS practice_logs (
			id BIGINT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, q := range ddl {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// CreateWithGoals inserts the user row and its goal rows in one
// transaction. The duplicate-email check runs inside the same transaction
// so a conflicting registration aborts before any row is written.
func (r *UserRepo) CreateWithGoals(ctx context.Context, u *entity.User, goals []*entity.Goal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var existing int64
	err = tx.GetContext(ctx, &existing, r.db.Rebind(`SELECT id FROM users WHERE email = ? LIMIT 1`), u.Email)
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = tx.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO users (id, name, email, password, created_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`),
		u.ID, u.Name, u.Email, u.Password)
	if err != nil {
		return err
	}

	for _, g := range goals {
		_, err = tx.ExecContext(ctx,
			r.db.Rebind(`INSERT INTO user_goals (id, user_id, goal_title) VALUES (?, ?, ?)`),
			g.ID, u.ID, g.Title)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByEmail returns the user matched by email or sql.ErrNoRows.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	q := r.db.Rebind(`SELECT id, name, email, password, created_at FROM users WHERE email = ? LIMIT 1`)
	if err := r.db.GetContext(ctx, &u, q, email); err != nil {
		return nil, err
	}
	return &u, nil
}

// EmailExists reports whether any user row carries this email.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var id int64
	q := r.db.Rebind(`SELECT id FROM users WHERE email = ? LIMIT 1`)
	err := r.db.GetContext(ctx, &id, q, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UpdatePasswordByEmail overwrites the stored password for the matching
// email and returns the number of rows touched.
func (r *UserRepo) UpdatePasswordByEmail(ctx context.Context, email, password string) (int64, error) {
	q := r.db.Rebind(`UPDATE users SET password = ? WHERE email = ?`)
	res, err := r.db.ExecContext(ctx, q, password, email)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListGoals returns the goals captured for a user, insertion-ordered.
func (r *UserRepo) ListGoals(ctx context.Context, userID int64) ([]*entity.Goal, error) {
	goals := []*entity.Goal{}
	q := r.db.Rebind(`SELECT id, user_id, goal_title FROM user_goals WHERE user_id = ? ORDER BY id ASC`)
	if err := r.db.SelectContext(ctx, &goals, q, userID); err != nil {
		return nil, err
	}
	return goals, nil
}

// DeleteCascade removes every dependent row class and finally the user row
// inside one transaction. A zero-row user delete aborts the whole
// transaction and surfaces sql.ErrNoRows, so dependents of a known user
// are never discarded for an unknown id.
func (r *UserRepo) DeleteCascade(ctx context.Context, userID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	dependents := []string{
		`DELETE FROM journals WHERE user_id = ?`,
		`DELETE FROM dass_results WHERE user_id = ?`,
		`DELETE FROM practice_logs WHERE user_id = ?`,
		`DELETE FROM moods WHERE user_id = ?`,
		`DELETE FROM user_goals WHERE user_id = ?`,
	}
	for _, q := range dependents {
		if _, err := tx.ExecContext(ctx, r.db.Rebind(q), userID); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM users WHERE id = ?`), userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return tx.Commit()
}
