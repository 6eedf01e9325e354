package services

import (
	"testing"
	"time"

	"inknet/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewAuthService("test-secret", 15*time.Minute, 24*time.Hour)

	token, err := svc.GenerateToken("user-1", "alice")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("user-1"), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, domain.Identity{ID: "user-1", Username: "alice"}, claims.Identity())
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService("test-secret", 15*time.Minute, 24*time.Hour)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := NewAuthService("test-secret", 15*time.Minute, 24*time.Hour)
	other := NewAuthService("other-secret", 15*time.Minute, 24*time.Hour)

	token, err := svc.GenerateToken("user-1", "alice")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewAuthService("test-secret", -time.Minute, 24*time.Hour)

	token, err := svc.GenerateToken("user-1", "alice")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret", 15*time.Minute, 24*time.Hour)

	refresh, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("user-1"), claims.UserID)
}
