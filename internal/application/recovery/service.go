package recovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/auth-api-nosql/internal/domain"
	"github.com/auth-api-nosql/internal/infrastructure/smtp"
	"github.com/auth-api-nosql/internal/pkg/otp"
	"github.com/auth-api-nosql/internal/pkg/password"
)

type Service interface {
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type resetStore interface {
	Put(ctx context.Context, pr *domain.PasswordReset) error
	Consume(ctx context.Context, userID, code string, now int64) error
}

type tokenRegistry interface {
	RevokeAllForUser(ctx context.Context, userID string) error
}

type eventPublisher interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}

type service struct {
	userRepo  userStore
	resetRepo resetStore
	registry  tokenRegistry
	mailer    smtp.Mailer
	events    eventPublisher
	otpTTL    time.Duration
}

type ServiceDeps struct {
	UserRepo  userStore
	ResetRepo resetStore
	Registry  tokenRegistry
	Mailer    smtp.Mailer
	Events    eventPublisher
	OTPTTL    time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		userRepo:  deps.UserRepo,
		resetRepo: deps.ResetRepo,
		registry:  deps.Registry,
		mailer:    deps.Mailer,
		events:    deps.Events,
		otpTTL:    deps.OTPTTL,
	}
}

// RequestPasswordReset stores a fresh one-time code for the user and mails it.
// The code stays stored even when delivery fails; the delivery failure is
// still reported to the caller.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	code, err := otp.Generate()
	if err != nil {
		return err
	}
	pr := &domain.PasswordReset{
		UserID:    u.UserID,
		Code:      code,
		ExpiresAt: time.Now().Add(s.otpTTL).Unix(),
	}
	if err := s.resetRepo.Put(ctx, pr); err != nil {
		return err
	}
	if err := s.mailer.SendEmail(u.Email, "Password Reset Code", "Your one-time code: "+code); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ConfirmPasswordReset consumes the one-time code and replaces the password
// hash. The consume is a single conditional write, so the code is single-use
// even under concurrent confirmations. Wrong and expired codes produce the
// same error.
func (s *service) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err := s.resetRepo.Consume(ctx, u.UserID, code, time.Now().Unix()); err != nil {
		return err
	}
	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, u.UserID, hash); err != nil {
		return err
	}
	// Sessions issued under the old password stop minting access tokens.
	if err := s.registry.RevokeAllForUser(ctx, u.UserID); err != nil {
		slog.Warn("failed to revoke refresh tokens after password reset", "user_id", u.UserID, "err", err)
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, "user.password_changed", map[string]string{"user_id": u.UserID}); err != nil {
			slog.Warn("failed to publish password-change event", "user_id", u.UserID, "err", err)
		}
	}
	return nil
}
