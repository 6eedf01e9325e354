package memory

import (
	"context"
	"sort"
	"sync"

	"inknet/internal/core/domain"
	"inknet/internal/core/ports"
)

type MemoryBoardRepository struct {
	boards map[domain.BoardID]*domain.Board
	mu     sync.RWMutex
}

func NewMemoryBoardRepository() ports.BoardRepository {
	return &MemoryBoardRepository{
		boards: make(map[domain.BoardID]*domain.Board),
	}
}

func (r *MemoryBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boards[board.ID]; exists {
		return domain.ErrBoardExists
	}

	r.boards[board.ID] = board.Clone()
	return nil
}

func (r *MemoryBoardRepository) GetByID(ctx context.Context, id domain.BoardID) (*domain.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	board, exists := r.boards[id]
	if !exists {
		return nil, domain.ErrBoardNotFound
	}

	return board.Clone(), nil
}

func (r *MemoryBoardRepository) Update(ctx context.Context, board *domain.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boards[board.ID]; !exists {
		return domain.ErrBoardNotFound
	}

	r.boards[board.ID] = board.Clone()
	return nil
}

func (r *MemoryBoardRepository) Delete(ctx context.Context, id domain.BoardID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boards[id]; !exists {
		return domain.ErrBoardNotFound
	}

	delete(r.boards, id)
	return nil
}

// ListByUser returns boards the user owns or collaborates on, ordered by ID
// for stable pagination.
func (r *MemoryBoardRepository) ListByUser(ctx context.Context, userID domain.UserID) ([]*domain.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Board
	for _, board := range r.boards {
		if board.OwnerID == userID {
			result = append(result, board.Clone())
			continue
		}
		if _, ok := board.CollaboratorLevel(userID); ok {
			result = append(result, board.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
