package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 14*24*time.Hour)

	token, err := manager.GenerateAccessToken("user-123", "sunny@example.com", "sunny")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "sunny@example.com", claims.Email)
	assert.Equal(t, "sunny", claims.Nickname)
	assert.Equal(t, "user-123", claims.Subject)
}

func TestJWTManager_ExpiredAccessToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, 14*24*time.Hour)

	token, err := manager.GenerateAccessToken("user-123", "sunny@example.com", "sunny")
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 14*24*time.Hour)
	other := NewJWTManager("other-secret", time.Hour, 14*24*time.Hour)

	token, err := manager.GenerateAccessToken("user-123", "sunny@example.com", "sunny")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RefreshTokenIsOpaqueAndHashed(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 14*24*time.Hour)

	first, err := manager.GenerateRefreshToken()
	require.NoError(t, err)
	second, err := manager.GenerateRefreshToken()
	require.NoError(t, err)

	assert.Len(t, first.Raw, 128)
	assert.NotEqual(t, first.Raw, second.Raw)
	assert.Equal(t, HashRefreshToken(first.Raw), first.Hash)
	assert.NotEqual(t, first.Raw, first.Hash)
	assert.WithinDuration(t, time.Now().UTC().Add(14*24*time.Hour), first.ExpiresAt, time.Minute)
}
