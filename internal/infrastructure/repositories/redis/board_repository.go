package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"inknet/internal/core/domain"
	"inknet/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RedisBoardRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisBoardRepository(client *redis.Client) ports.BoardRepository {
	return &RedisBoardRepository{
		client: client,
		prefix: "inknet:",
	}
}

func (r *RedisBoardRepository) boardKey(id domain.BoardID) string {
	return r.prefix + "board:" + string(id)
}

func (r *RedisBoardRepository) userBoardsKey(id domain.UserID) string {
	return r.prefix + "user:" + string(id) + ":boards"
}

// participants returns every user the board should be indexed under.
func participants(board *domain.Board) []domain.UserID {
	ids := []domain.UserID{board.OwnerID}
	for _, c := range board.Collaborators {
		ids = append(ids, c.UserID)
	}
	return ids
}

func (r *RedisBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.boardKey(board.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to set board in Redis: %w", err)
	}
	if !ok {
		return domain.ErrBoardExists
	}

	for _, uid := range participants(board) {
		if err := r.client.SAdd(ctx, r.userBoardsKey(uid), string(board.ID)).Err(); err != nil {
			return fmt.Errorf("failed to index board for user: %w", err)
		}
	}
	return nil
}

func (r *RedisBoardRepository) GetByID(ctx context.Context, id domain.BoardID) (*domain.Board, error) {
	data, err := r.client.Get(ctx, r.boardKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrBoardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board from Redis: %w", err)
	}

	var board domain.Board
	if err := json.Unmarshal([]byte(data), &board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board: %w", err)
	}
	return &board, nil
}

func (r *RedisBoardRepository) Update(ctx context.Context, board *domain.Board) error {
	prev, err := r.GetByID(ctx, board.ID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}
	if err := r.client.Set(ctx, r.boardKey(board.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update board in Redis: %w", err)
	}

	// Reconcile the per-user indexes against the previous record.
	current := make(map[domain.UserID]bool)
	for _, uid := range participants(board) {
		current[uid] = true
		if err := r.client.SAdd(ctx, r.userBoardsKey(uid), string(board.ID)).Err(); err != nil {
			return fmt.Errorf("failed to index board for user: %w", err)
		}
	}
	for _, uid := range participants(prev) {
		if current[uid] {
			continue
		}
		if err := r.client.SRem(ctx, r.userBoardsKey(uid), string(board.ID)).Err(); err != nil {
			return fmt.Errorf("failed to unindex board for user: %w", err)
		}
	}
	return nil
}

func (r *RedisBoardRepository) Delete(ctx context.Context, id domain.BoardID) error {
	board, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	for _, uid := range participants(board) {
		if err := r.client.SRem(ctx, r.userBoardsKey(uid), string(id)).Err(); err != nil {
			return fmt.Errorf("failed to unindex board for user: %w", err)
		}
	}
	if err := r.client.Del(ctx, r.boardKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete board from Redis: %w", err)
	}
	return nil
}

func (r *RedisBoardRepository) ListByUser(ctx context.Context, userID domain.UserID) ([]*domain.Board, error) {
	ids, err := r.client.SMembers(ctx, r.userBoardsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list boards from Redis: %w", err)
	}

	sort.Strings(ids)
	var boards []*domain.Board
	for _, id := range ids {
		board, err := r.GetByID(ctx, domain.BoardID(id))
		if err != nil {
			// Index entries can outlive a board briefly; skip them.
			continue
		}
		boards = append(boards, board)
	}
	return boards, nil
}
