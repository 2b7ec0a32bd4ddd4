package journal

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/oceanablv/moodq/internal/journal/entity"
	journalrepo "github.com/oceanablv/moodq/internal/journal/repo"
	"github.com/oceanablv/moodq/pkg/utilities"
)

// Repository is the data access surface the service needs.
type Repository interface {
	Insert(ctx context.Context, j *entity.Journal) error
	Update(ctx context.Context, j *entity.Journal) (int64, error)
	Delete(ctx context.Context, id, userID int64) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*entity.Journal, error)
}

// ErrNotFound marks a scoped update/delete that matched no row.
var ErrNotFound = errors.New("journal not found")

// Service owns journal entry CRUD.
type Service struct {
	repo Repository
}

func NewService(db *sqlx.DB, r Repository) *Service {
	if r == nil {
		r = journalrepo.NewJournalRepo(db)
	}
	return &Service{repo: r}
}

// Add records a new journal entry and returns its id.
func (s *Service) Add(ctx context.Context, userID int64, title, content, tags string, isPrivate bool) (int64, error) {
	j := &entity.Journal{
		ID:        utilities.NewRowID(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		Tags:      tags,
		IsPrivate: isPrivate,
	}
	if err := s.repo.Insert(ctx, j); err != nil {
		return 0, err
	}
	return j.ID, nil
}

// Update mutates an entry scoped by (id, user_id).
func (s *Service) Update(ctx context.Context, userID, journalID int64, title, content, tags string, isPrivate bool) error {
	rows, err := s.repo.Update(ctx, &entity.Journal{
		ID:        journalID,
		UserID:    userID,
		Title:     title,
		Content:   content,
		Tags:      tags,
		IsPrivate: isPrivate,
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an entry scoped by (id, user_id).
func (s *Service) Delete(ctx context.Context, userID, journalID int64) error {
	rows, err := s.repo.Delete(ctx, journalID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the user's journal entries newest-first.
func (s *Service) List(ctx context.Context, userID int64) ([]*entity.Journal, error) {
	return s.repo.ListByUser(ctx, userID)
}
