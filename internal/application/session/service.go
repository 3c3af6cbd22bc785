package session

import (
	"context"
	"fmt"
	"time"

	"github.com/auth-api-nosql/internal/domain"
	jwtinfra "github.com/auth-api-nosql/internal/infrastructure/jwt"
	"github.com/auth-api-nosql/internal/pkg/password"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type tokenRegistry interface {
	Register(ctx context.Context, rec *domain.RefreshTokenRecord) error
	IsValid(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string) error
}

type tokenProvider interface {
	SignAccess(userID, username, email string) (string, error)
	SignRefresh(userID, username, email string) (string, error)
	VerifyRefresh(token string) (*jwtinfra.Claims, error)
	RefreshTTL() time.Duration
}

type service struct {
	userRepo userStore
	registry tokenRegistry
	tokens   tokenProvider
}

type ServiceDeps struct {
	UserRepo userStore
	Registry tokenRegistry
	Tokens   tokenProvider
}

func NewService(deps ServiceDeps) Service {
	return &service{
		userRepo: deps.UserRepo,
		registry: deps.Registry,
		tokens:   deps.Tokens,
	}
}

// Login verifies the credentials, issues an access/refresh token pair and
// registers the refresh token.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	ok, err := password.Verify(req.Password, u.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("invalid password: %w", domain.ErrUnauthorized)
	}
	accessToken, err := s.tokens.SignAccess(u.UserID, u.Username, u.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.SignRefresh(u.UserID, u.Username, u.Email)
	if err != nil {
		return nil, err
	}
	rec := &domain.RefreshTokenRecord{
		Token:     refreshToken,
		UserID:    u.UserID,
		ExpiresAt: time.Now().Add(s.tokens.RefreshTTL()).Unix(),
	}
	if err := s.registry.Register(ctx, rec); err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: accessToken, RefreshToken: refreshToken, User: u}, nil
}

// Refresh exchanges a registered, valid refresh token for a new access token.
// The new token's claims come from the verified refresh token itself.
func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", fmt.Errorf("refresh token required: %w", domain.ErrUnauthorized)
	}
	ok, err := s.registry.IsValid(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("refresh token not registered: %w", domain.ErrForbidden)
	}
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", fmt.Errorf("invalid refresh token: %w", domain.ErrForbidden)
	}
	return s.tokens.SignAccess(claims.UserID, claims.Username, claims.Email)
}

// Logout revokes the refresh token. Revoking an unknown token is a no-op, so
// repeated logouts succeed.
func (s *service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return fmt.Errorf("refresh token required: %w", domain.ErrBadRequest)
	}
	return s.registry.Revoke(ctx, refreshToken)
}
