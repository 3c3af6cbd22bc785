package http

import (
	"context"

	"github.com/auth-api-nosql/internal/domain"
	jwtinfra "github.com/auth-api-nosql/internal/infrastructure/jwt"
	"github.com/auth-api-nosql/internal/infrastructure/smtp"
	"github.com/auth-api-nosql/internal/infrastructure/sns"
)

// UserRepository is the minimal interface the router requires from the
// credential store.
type UserRepository interface {
	// Create inserts the user; uniqueness of username and email is enforced
	// by the store itself, not by a check-then-insert in the caller.
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

// RefreshTokenRepository is the minimal interface the router requires from the
// refresh-token registry.
type RefreshTokenRepository interface {
	Register(ctx context.Context, rec *domain.RefreshTokenRecord) error
	IsValid(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// ResetRepository is the minimal interface the router requires from the
// pending-reset store.
type ResetRepository interface {
	Put(ctx context.Context, pr *domain.PasswordReset) error
	Consume(ctx context.Context, userID, code string, now int64) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    UserRepository
	TokenRepo   RefreshTokenRepository
	ResetRepo   ResetRepository
	Mailer      smtp.Mailer
	Events      sns.Publisher
	JWTProvider *jwtinfra.Provider
}
