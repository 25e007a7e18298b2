package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(accessTTL, refreshTTL time.Duration) *Manager {
	return NewManager(Config{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager(time.Minute, time.Hour)

	token, err := m.GenerateAccessToken("user-123")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "access", claims.Type)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager(time.Minute, time.Hour)

	token, err := m.GenerateRefreshToken("user-123")
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "refresh", claims.Type)
}

func TestTokenTypeMismatchRejected(t *testing.T) {
	m := newTestManager(time.Minute, time.Hour)

	access, err := m.GenerateAccessToken("user-123")
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken("user-123")
	require.NoError(t, err)

	// Different secrets per type, so a cross-validation fails as invalid.
	_, err = m.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = m.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredTokenReported(t *testing.T) {
	m := newTestManager(-time.Minute, time.Hour)

	token, err := m.GenerateAccessToken("user-123")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTamperedTokenRejected(t *testing.T) {
	m := newTestManager(time.Minute, time.Hour)

	token, err := m.GenerateAccessToken("user-123")
	require.NoError(t, err)

	other := NewManager(Config{
		AccessSecret:  "different-secret",
		RefreshSecret: "different-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = m.ValidateAccessToken(token + "x")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
