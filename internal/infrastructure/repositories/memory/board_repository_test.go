package memory

import (
	"context"
	"testing"

	"inknet/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardRepositoryCRUD(t *testing.T) {
	repo := NewMemoryBoardRepository()
	ctx := context.Background()

	board := &domain.Board{ID: "b1", Name: "First", OwnerID: "alice"}
	require.NoError(t, repo.Create(ctx, board))

	assert.ErrorIs(t, repo.Create(ctx, board), domain.ErrBoardExists)

	got, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "First", got.Name)

	got.Name = "Renamed"
	require.NoError(t, repo.Update(ctx, got))
	got2, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got2.Name)

	require.NoError(t, repo.Delete(ctx, "b1"))
	_, err = repo.GetByID(ctx, "b1")
	assert.ErrorIs(t, err, domain.ErrBoardNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "b1"), domain.ErrBoardNotFound)
	assert.ErrorIs(t, repo.Update(ctx, board), domain.ErrBoardNotFound)
}

// The repository hands out clones: mutating a returned record must not leak
// into the stored one.
func TestBoardRepositoryReturnsCopies(t *testing.T) {
	repo := NewMemoryBoardRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Board{
		ID:            "b1",
		OwnerID:       "alice",
		Collaborators: []domain.Collaborator{{UserID: "bob", Level: domain.LevelView}},
	}))

	got, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	got.Collaborators[0].Level = domain.LevelAdmin
	got.Name = "mutated"

	fresh, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, domain.LevelView, fresh.Collaborators[0].Level)
	assert.Empty(t, fresh.Name)
}

func TestBoardRepositoryListByUser(t *testing.T) {
	repo := NewMemoryBoardRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Board{ID: "b2", OwnerID: "alice"}))
	require.NoError(t, repo.Create(ctx, &domain.Board{ID: "b1", OwnerID: "bob",
		Collaborators: []domain.Collaborator{{UserID: "alice", Level: domain.LevelEdit}}}))
	require.NoError(t, repo.Create(ctx, &domain.Board{ID: "b3", OwnerID: "carol"}))

	boards, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, boards, 2)
	// Ordered by board id.
	assert.Equal(t, domain.BoardID("b1"), boards[0].ID)
	assert.Equal(t, domain.BoardID("b2"), boards[1].ID)

	boards, err = repo.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, boards)
}
