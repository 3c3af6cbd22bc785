package user

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/auth-api-nosql/internal/domain"
	"github.com/auth-api-nosql/internal/pkg/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	args := m.Called(ctx, limit, cursor)
	users, _ := args.Get(0).([]domain.User)
	return users, args.String(1), args.Error(2)
}

type mockEvents struct{ mock.Mock }

func (m *mockEvents) Publish(ctx context.Context, event string, payload interface{}) error {
	return m.Called(ctx, event, payload).Error(0)
}

// --- Register ---

func TestRegister_HashesPassword(t *testing.T) {
	us := &mockUserStore{}
	var stored *domain.User
	us.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.User) }).
		Return(nil)

	svc := NewService(ServiceDeps{UserRepo: us})
	u, err := svc.Register(context.Background(), domain.CreateUserRequest{
		Username: "alice", Password: "pw1", Email: "alice@x.com",
	})

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEmpty(t, u.UserID)
	assert.NotEqual(t, "pw1", stored.PasswordHash)

	ok, err := password.Verify("pw1", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_ConflictPropagates(t *testing.T) {
	us := &mockUserStore{}
	us.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("username already taken: %w", domain.ErrConflict))

	svc := NewService(ServiceDeps{UserRepo: us})
	_, err := svc.Register(context.Background(), domain.CreateUserRequest{
		Username: "alice", Password: "pw1", Email: "alice@x.com",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestRegister_EventFailureIsNotFatal(t *testing.T) {
	us := &mockUserStore{}
	ev := &mockEvents{}
	us.On("Create", mock.Anything, mock.Anything).Return(nil)
	ev.On("Publish", mock.Anything, "user.registered", mock.Anything).Return(errors.New("sns down"))

	svc := NewService(ServiceDeps{UserRepo: us, Events: ev})
	u, err := svc.Register(context.Background(), domain.CreateUserRequest{
		Username: "alice", Password: "pw1", Email: "alice@x.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	ev.AssertExpectations(t)
}

// --- List ---

func TestList_DefaultsLimit(t *testing.T) {
	us := &mockUserStore{}
	us.On("ScanPage", mock.Anything, int32(50), "").Return([]domain.User{{Username: "alice"}}, "", nil)

	svc := NewService(ServiceDeps{UserRepo: us})
	users, next, err := svc.List(context.Background(), 0, "")

	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Empty(t, next)
	us.AssertExpectations(t)
}
