package services

import (
	"testing"

	"inknet/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func testBoard() *domain.Board {
	return &domain.Board{
		ID:      "board-1",
		Name:    "Test Board",
		OwnerID: "owner",
		Collaborators: []domain.Collaborator{
			{UserID: "viewer", Level: domain.LevelView},
			{UserID: "editor", Level: domain.LevelEdit},
			{UserID: "admin", Level: domain.LevelAdmin},
		},
	}
}

func TestResolveAccessOwner(t *testing.T) {
	grant, err := ResolveAccess(testBoard(), "owner")

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, grant.Role)
	assert.True(t, grant.CanEdit)
	assert.True(t, grant.CanAdminister())
}

func TestResolveAccessCollaboratorLevels(t *testing.T) {
	tests := []struct {
		name         string
		userID       domain.UserID
		wantRole     domain.Role
		wantCanEdit  bool
		wantCanAdmin bool
	}{
		{"view collaborator", "viewer", domain.RoleView, false, false},
		{"edit collaborator", "editor", domain.RoleEdit, true, false},
		{"admin collaborator", "admin", domain.RoleAdmin, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grant, err := ResolveAccess(testBoard(), tt.userID)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantRole, grant.Role)
			assert.Equal(t, tt.wantCanEdit, grant.CanEdit)
			assert.Equal(t, tt.wantCanAdmin, grant.CanAdminister())
		})
	}
}

func TestResolveAccessPublicFallback(t *testing.T) {
	board := testBoard()
	board.Public = true

	grant, err := ResolveAccess(board, "stranger")

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleView, grant.Role)
	assert.False(t, grant.CanEdit)
	assert.False(t, grant.CanAdminister())
}

func TestResolveAccessDenied(t *testing.T) {
	_, err := ResolveAccess(testBoard(), "stranger")

	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

// The owner entry wins even when the same user also appears as a collaborator
// with a lower level.
func TestResolveAccessOwnerPrecedesCollaboratorEntry(t *testing.T) {
	board := testBoard()
	board.Collaborators = append(board.Collaborators, domain.Collaborator{
		UserID: "owner", Level: domain.LevelView,
	})

	grant, err := ResolveAccess(board, "owner")

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, grant.Role)
	assert.True(t, grant.CanEdit)
}

// A collaborator entry wins over public visibility: a view collaborator on a
// public board stays a view collaborator, and an unknown level does not get
// upgraded by the public fallback.
func TestResolveAccessCollaboratorPrecedesPublic(t *testing.T) {
	board := testBoard()
	board.Public = true

	grant, err := ResolveAccess(board, "editor")

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleEdit, grant.Role)
	assert.True(t, grant.CanEdit)
}

func TestResolveAccessIsPure(t *testing.T) {
	board := testBoard()

	first, err1 := ResolveAccess(board, "editor")
	second, err2 := ResolveAccess(board, "editor")

	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.Equal(t, first, second)
	// The input record is untouched.
	assert.Len(t, board.Collaborators, 3)
}
