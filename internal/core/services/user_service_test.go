package services

import (
	"context"
	"testing"

	"inknet/internal/core/domain"
	"inknet/internal/infrastructure/repositories/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewUserService(memory.NewMemoryUserRepository(), zap.NewNop().Sugar())

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)

	got, err := svc.Authenticate(context.Background(), "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := NewUserService(memory.NewMemoryUserRepository(), zap.NewNop().Sugar())

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// Unknown usernames fail with the same error as wrong passwords.
func TestAuthenticateUnknownUser(t *testing.T) {
	svc := NewUserService(memory.NewMemoryUserRepository(), zap.NewNop().Sugar())

	_, err := svc.Authenticate(context.Background(), "nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := NewUserService(memory.NewMemoryUserRepository(), zap.NewNop().Sugar())

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice", "other@example.com", "password456")
	assert.ErrorIs(t, err, domain.ErrUserExists)
}
