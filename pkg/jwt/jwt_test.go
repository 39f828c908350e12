package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "test-access-secret-at-least-32-chars!!"
	testRefreshSecret = "test-refresh-secret-at-least-32-chars!"
)

func newTestService() *Service {
	return NewService(testAccessSecret, testRefreshSecret, 15*time.Minute, 7*24*time.Hour)
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "jane@example.com", "owner")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestGenerateAndValidateRefreshToken(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, err := svc.GenerateRefreshToken(userID, "jane@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestTokenTypeMismatch(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	refresh, err := svc.GenerateRefreshToken(userID, "jane@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	svc := NewService(testAccessSecret, testRefreshSecret, -time.Minute, -time.Minute)
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "jane@example.com", "user")
	require.NoError(t, err)

	_, err = newTestService().ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestWrongSecret(t *testing.T) {
	svc := newTestService()
	other := NewService("another-secret-that-is-32-chars-long!!", testRefreshSecret,
		15*time.Minute, time.Hour)

	token, err := svc.GenerateAccessToken(uuid.New(), "jane@example.com", "user")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestTamperedToken(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateAccessToken(uuid.New(), "jane@example.com", "user")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token + "x")
	assert.Error(t, err)
}
