package mood

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/oceanablv/moodq/internal/mood/entity"
	moodrepo "github.com/oceanablv/moodq/internal/mood/repo"
	"github.com/oceanablv/moodq/pkg/utilities"
)

// Repository is the data access surface the service needs. *repo.MoodRepo
// is the production implementation; tests substitute fakes.
type Repository interface {
	Insert(ctx context.Context, m *entity.Mood) error
	Update(ctx context.Context, m *entity.Mood) (int64, error)
	Delete(ctx context.Context, id, userID int64) (int64, error)
	ListSince(ctx context.Context, userID int64, since *time.Time) ([]*entity.Mood, error)
	Count(ctx context.Context, userID int64) (int64, error)
	Latest(ctx context.Context, userID int64) (string, float64, error)
	StreakDays(ctx context.Context, userID int64) (int64, error)
}

// ErrNotFound marks a scoped update/delete that matched no row.
var ErrNotFound = errors.New("mood not found")

// NoDataLabel is the home-stats sentinel for users without entries.
const NoDataLabel = "No Data"

// Service owns mood entry CRUD and the read-only aggregations.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(db *sqlx.DB, r Repository) *Service {
	if r == nil {
		r = moodrepo.NewMoodRepo(db)
	}
	return &Service{repo: r, now: time.Now}
}

// Add records a new mood entry and returns its id.
func (s *Service) Add(ctx context.Context, userID int64, label string, intensity float64, note string) (int64, error) {
	m := &entity.Mood{
		ID:        utilities.NewRowID(),
		UserID:    userID,
		Label:     label,
		Intensity: intensity,
		Note:      note,
	}
	if err := s.repo.Insert(ctx, m); err != nil {
		return 0, err
	}
	return m.ID, nil
}

// Update mutates an entry scoped by (id, user_id).
func (s *Service) Update(ctx context.Context, userID, moodID int64, label string, intensity float64, note string) error {
	rows, err := s.repo.Update(ctx, &entity.Mood{
		ID:        moodID,
		UserID:    userID,
		Label:     label,
		Intensity: intensity,
		Note:      note,
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
func (s *Service) Delete(ctx context.Context, userID, moodID int64) error {
	rows, err := s.repo.Delete(ctx, moodID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// periodCutoff maps a period name to a created_at lower bound relative to
// now. Anything other than week/month/year means unfiltered.
func (s *Service) periodCutoff(period string) *time.Time {
	var days int
	switch strings.ToLower(period) {
	case "week":
		days = 7
	case "month":
		days = 30
	case "year":
		days = 365
	default:
		return nil
	}
	t := s.now().AddDate(0, 0, -days)
	return &t
}

// Insights returns the user's entries for the requested period, ordered
// oldest-first for the trend chart.
func (s *Service) Insights(ctx context.Context, userID int64, period string) ([]*entity.Mood, error) {
	return s.repo.ListSince(ctx, userID, s.periodCutoff(period))
}

// HomeStats assembles the home screen aggregates from three independent
// reads. The reads are not a point-in-time snapshot; this is informational
// data and slight skew is acceptable.
func (s *Service) HomeStats(ctx context.Context, userID int64) (*entity.HomeStats, error) {
	total, err := s.repo.Count(ctx, userID)
	if err != nil {
		return nil, err
	}

	label, intensity, err := s.repo.Latest(ctx, userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		label, intensity = NoDataLabel, 0.0
	}

	streak, err := s.repo.StreakDays(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &entity.HomeStats{
		UserID:       userID,
		Label:        label,
		Intensity:    intensity,
		TotalEntries: total,
		Streak:       streak,
	}, nil
}
