package account

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/oceanablv/moodq/internal/account/entity"
	userrepo "github.com/oceanablv/moodq/internal/account/repo"
	"github.com/oceanablv/moodq/pkg/utilities"
)

// PasswordCodec abstracts how passwords are stored. The mobile client's
// historical contract stores them verbatim; hashing is an explicit opt-in
// (AUTH_HASH_PASSWORDS=1) so existing rows keep working.
type PasswordCodec interface {
	Encode(pw string) (string, error)
	Verify(stored, pw string) bool
}

// PlainCodec stores passwords byte-for-byte and compares in constant time.
type PlainCodec struct{}

func (PlainCodec) Encode(pw string) (string, error) { return pw, nil }
func (PlainCodec) Verify(stored, pw string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(pw)) == 1
}

// BcryptCodec implementation.
type BcryptCodec struct{ Cost int }

func (b BcryptCodec) Encode(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptCodec) Verify(stored, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(pw)) == nil
}

// CodecFromEnv picks the password codec from AUTH_HASH_PASSWORDS.
func CodecFromEnv() PasswordCodec {
	if os.Getenv("AUTH_HASH_PASSWORDS") == "1" {
		return BcryptCodec{Cost: 12}
	}
	return PlainCodec{}
}

// Repository is the data access surface the service needs. *repo.UserRepo
// is the production implementation; tests substitute fakes.
type Repository interface {
	CreateWithGoals(ctx context.Context, u *entity.User, goals []*entity.Goal) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdatePasswordByEmail(ctx context.Context, email, password string) (int64, error)
	DeleteCascade(ctx context.Context, userID int64) error
}

var (
	ErrDuplicateEmail = errors.New("email already exists")
	ErrEmailNotFound  = errors.New("email not registered")
	ErrNotFound       = errors.New("user not found")
	ErrBadCredentials = errors.New("invalid credentials")
)

// Service orchestrates the account lifecycle: registration, login,
// password reset, and cascading deletion.
type Service struct {
	repo  Repository
	codec PasswordCodec
}

func NewService(db *sqlx.DB, r Repository, codec PasswordCodec) *Service {
	if r == nil {
		r = userrepo.NewUserRepo(db)
	}
	if codec == nil {
		codec = CodecFromEnv()
	}
	return &Service{repo: r, codec: codec}
}

// Register creates the user row plus one goal row per title in a single
// transaction. Returns the new user id.
func (s *Service) Register(ctx context.Context, name, email, password string, goalTitles []string) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	stored, err := s.codec.Encode(password)
	if err != nil {
		return 0, err
	}
	u := &entity.User{
		ID:       utilities.NewRowID(),
		Name:     name,
		Email:    email,
		Password: stored,
	}
	goals := make([]*entity.Goal, 0, len(goalTitles))
	for _, title := range goalTitles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		goals = append(goals, &entity.Goal{ID: utilities.NewRowID(), UserID: u.ID, Title: title})
	}
	if err := s.repo.CreateWithGoals(ctx, u, goals); err != nil {
		if errors.Is(err, userrepo.ErrEmailTaken) {
			return 0, ErrDuplicateEmail
		}
		return 0, err
	}
	return u.ID, nil
}

// Authenticate checks a credential pair and returns the user on success.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !s.codec.Verify(u.Password, password) {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// EmailExists is the reset-flow probe: "is this email known".
func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.EmailExists(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// ChangePassword overwrites the password for the matching email. There is
// no prior-credential verification; the client gates this behind the
// EmailExists probe.
func (s *Service) ChangePassword(ctx context.Context, email, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	stored, err := s.codec.Encode(newPassword)
	if err != nil {
		return err
	}
	rows, err := s.repo.UpdatePasswordByEmail(ctx, email, stored)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrEmailNotFound
	}
	return nil
}

// DeleteAccount removes the user and all dependent rows atomically.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.repo.DeleteCascade(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
