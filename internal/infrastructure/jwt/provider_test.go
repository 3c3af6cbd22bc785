package jwtinfra

import (
	"testing"
	"time"

	"github.com/auth-api-nosql/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, accessTTL, refreshTTL time.Duration) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTokenTTL:   accessTTL,
		RefreshTokenTTL:  refreshTTL,
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_MissingSecrets(t *testing.T) {
	_, err := NewProvider(&config.Config{JWTAccessSecret: "only-one"})
	require.Error(t, err)
}

func TestSignAccess_VerifiesImmediately(t *testing.T) {
	p := newTestProvider(t, 10*time.Minute, time.Hour)

	token, err := p.SignAccess("u1", "alice", "alice@x.com")
	require.NoError(t, err)

	claims, err := p.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@x.com", claims.Email)
}

func TestVerifyAccess_Expired(t *testing.T) {
	p := newTestProvider(t, -time.Minute, time.Hour)

	token, err := p.SignAccess("u1", "alice", "alice@x.com")
	require.NoError(t, err)

	_, err = p.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyAccess_WrongSecret(t *testing.T) {
	p := newTestProvider(t, 10*time.Minute, time.Hour)
	other, err := NewProvider(&config.Config{
		JWTAccessSecret:  "different-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTokenTTL:   10 * time.Minute,
		RefreshTokenTTL:  time.Hour,
	})
	require.NoError(t, err)

	token, err := p.SignAccess("u1", "alice", "alice@x.com")
	require.NoError(t, err)

	_, err = other.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	p := newTestProvider(t, 10*time.Minute, time.Hour)

	_, err := p.VerifyAccess("definitely.not.a-jwt")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSecrets_AreIndependent(t *testing.T) {
	p := newTestProvider(t, 10*time.Minute, time.Hour)

	access, err := p.SignAccess("u1", "alice", "alice@x.com")
	require.NoError(t, err)
	refresh, err := p.SignRefresh("u1", "alice", "alice@x.com")
	require.NoError(t, err)

	// An access token must not pass refresh verification, and vice versa.
	_, err = p.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
	_, err = p.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrSignatureInvalid)

	claims, err := p.VerifyRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}
