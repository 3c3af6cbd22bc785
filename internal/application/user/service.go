package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/auth-api-nosql/internal/domain"
	"github.com/auth-api-nosql/internal/pkg/id"
	"github.com/auth-api-nosql/internal/pkg/password"
)

type Service interface {
	Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}

type service struct {
	repo   userStore
	events eventPublisher
}

type ServiceDeps struct {
	UserRepo userStore
	Events   eventPublisher
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.UserRepo, events: deps.Events}
}

// Register hashes the password and inserts the user. Uniqueness of username
// and email is enforced by the store, so concurrent registrations with the
// same identity cannot both succeed.
func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, "user.registered", map[string]string{"user_id": u.UserID}); err != nil {
			slog.Warn("failed to publish registration event", "user_id", u.UserID, "err", err)
		}
	}
	return u, nil
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}
