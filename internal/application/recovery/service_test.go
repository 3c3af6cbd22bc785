package recovery

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/auth-api-nosql/internal/domain"
	"github.com/auth-api-nosql/internal/pkg/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}

type mockResetStore struct{ mock.Mock }

func (m *mockResetStore) Put(ctx context.Context, pr *domain.PasswordReset) error {
	return m.Called(ctx, pr).Error(0)
}
func (m *mockResetStore) Consume(ctx context.Context, userID, code string, now int64) error {
	return m.Called(ctx, userID, code, now).Error(0)
}

type mockRegistry struct{ mock.Mock }

func (m *mockRegistry) RevokeAllForUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

// --- builder ---

func newService(us *mockUserStore, rs *mockResetStore, reg *mockRegistry, ml *mockMailer) Service {
	return NewService(ServiceDeps{
		UserRepo:  us,
		ResetRepo: rs,
		Registry:  reg,
		Mailer:    ml,
		OTPTTL:    10 * time.Minute,
	})
}

var sixDigits = regexp.MustCompile(`\b\d{6}\b`)

// --- RequestPasswordReset ---

func TestRequestPasswordReset_UserNotFound(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ghost@x.com").Return(nil, domain.ErrNotFound)

	svc := newService(us, nil, nil, nil)
	err := svc.RequestPasswordReset(context.Background(), "ghost@x.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRequestPasswordReset_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	rs := &mockResetStore{}
	ml := &mockMailer{}

	us.On("GetByEmail", mock.Anything, "alice@x.com").Return(&domain.User{UserID: "u1", Email: "alice@x.com"}, nil)
	rs.On("Put", mock.Anything, mock.MatchedBy(func(pr *domain.PasswordReset) bool {
		remaining := pr.ExpiresAt - time.Now().Unix()
		return pr.UserID == "u1" && len(pr.Code) == 6 &&
			remaining > 9*60 && remaining <= 10*60
	})).Return(nil)
	ml.On("SendEmail", "alice@x.com", mock.Anything, mock.MatchedBy(func(body string) bool {
		return sixDigits.MatchString(body)
	})).Return(nil)

	svc := newService(us, rs, nil, ml)
	err := svc.RequestPasswordReset(context.Background(), "alice@x.com")

	require.NoError(t, err)
	rs.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestRequestPasswordReset_MailFailureReported_StateKept(t *testing.T) {
	us := &mockUserStore{}
	rs := &mockResetStore{}
	ml := &mockMailer{}

	us.On("GetByEmail", mock.Anything, "alice@x.com").Return(&domain.User{UserID: "u1", Email: "alice@x.com"}, nil)
	rs.On("Put", mock.Anything, mock.Anything).Return(nil)
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := newService(us, rs, nil, ml)
	err := svc.RequestPasswordReset(context.Background(), "alice@x.com")

	require.Error(t, err)
	// The stored code is kept: the failure is a delivery problem, not a state problem.
	rs.AssertCalled(t, "Put", mock.Anything, mock.Anything)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
	assert.False(t, errors.Is(err, domain.ErrBadRequest))
}

// --- ConfirmPasswordReset ---

func TestConfirmPasswordReset_UserNotFound(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ghost@x.com").Return(nil, domain.ErrNotFound)

	svc := newService(us, nil, nil, nil)
	err := svc.ConfirmPasswordReset(context.Background(), "ghost@x.com", "123456", "newpw")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestConfirmPasswordReset_InvalidOrExpiredCode(t *testing.T) {
	us := &mockUserStore{}
	rs := &mockResetStore{}
	us.On("GetByEmail", mock.Anything, "alice@x.com").Return(&domain.User{UserID: "u1"}, nil)
	rs.On("Consume", mock.Anything, "u1", "000000", mock.Anything).
		Return(fmt.Errorf("invalid or expired code: %w", domain.ErrBadRequest))

	svc := newService(us, rs, nil, nil)
	err := svc.ConfirmPasswordReset(context.Background(), "alice@x.com", "000000", "newpw")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	us.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPasswordReset_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	rs := &mockResetStore{}
	reg := &mockRegistry{}

	us.On("GetByEmail", mock.Anything, "alice@x.com").Return(&domain.User{UserID: "u1"}, nil)
	rs.On("Consume", mock.Anything, "u1", "123456", mock.Anything).Return(nil)
	var newHash string
	us.On("UpdatePassword", mock.Anything, "u1", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { newHash = args.String(2) }).
		Return(nil)
	reg.On("RevokeAllForUser", mock.Anything, "u1").Return(nil)

	svc := newService(us, rs, reg, nil)
	err := svc.ConfirmPasswordReset(context.Background(), "alice@x.com", "123456", "brand-new-pw")

	require.NoError(t, err)
	ok, err := password.Verify("brand-new-pw", newHash)
	require.NoError(t, err)
	assert.True(t, ok)
	reg.AssertExpectations(t)
}
