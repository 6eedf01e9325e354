package services

import (
	"context"
	"fmt"
	"time"

	"inknet/internal/core/domain"
	"inknet/internal/core/ports"
	"inknet/pkg/cache"
	"inknet/pkg/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// boardReadTTL bounds staleness of the REST read surface. The hub's join path
// goes through FetchAccessRecord and never reads this cache.
const boardReadTTL = 2 * time.Second

type boardService struct {
	repo   ports.BoardRepository
	reads  *cache.Cache
	logger *zap.SugaredLogger
}

func NewBoardService(repo ports.BoardRepository, logger *zap.SugaredLogger) ports.BoardService {
	return &boardService{
		repo:   repo,
		reads:  cache.New(boardReadTTL),
		logger: logger,
	}
}

func readKey(id domain.BoardID) string {
	return "board:" + string(id)
}

func (s *boardService) CreateBoard(ctx context.Context, name string, owner domain.UserID, public bool) (*domain.Board, error) {
	if err := validation.ValidateBoardName(name); err != nil {
		return nil, err
	}
	if owner == "" {
		return nil, fmt.Errorf("owner is required")
	}

	now := time.Now()
	board := &domain.Board{
		ID:        domain.BoardID(uuid.New().String()),
		Name:      name,
		OwnerID:   owner,
		Public:    public,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, board); err != nil {
		return nil, err
	}

	s.logger.Infow("board created", "board_id", board.ID, "owner", owner, "public", public)
	return board, nil
}

func (s *boardService) GetBoard(ctx context.Context, id domain.BoardID) (*domain.Board, error) {
	if cached, ok := s.reads.Get(readKey(id)); ok {
		return cached.(*domain.Board), nil
	}

	board, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.reads.Set(readKey(id), board)
	return board, nil
}

func (s *boardService) FetchAccessRecord(ctx context.Context, id domain.BoardID) (*domain.Board, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *boardService) ListBoards(ctx context.Context, userID domain.UserID) ([]*domain.Board, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *boardService) DeleteBoard(ctx context.Context, id domain.BoardID, actor domain.UserID) error {
	board, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if board.OwnerID != actor {
		return domain.ErrPermissionDenied
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.reads.Delete(readKey(id))
	s.logger.Infow("board deleted", "board_id", id, "actor", actor)
	return nil
}

func (s *boardService) ShareBoard(ctx context.Context, id domain.BoardID, actor domain.UserID, collaborator domain.Collaborator) error {
	if !collaborator.Level.Valid() {
		return fmt.Errorf("invalid access level: %s", collaborator.Level)
	}
	if collaborator.UserID == "" {
		return fmt.Errorf("collaborator user id is required")
	}

	board, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireSharePermission(board, actor); err != nil {
		return err
	}
	if collaborator.UserID == board.OwnerID {
		return fmt.Errorf("owner cannot be added as collaborator")
	}

	// Replace an existing entry for the same user rather than duplicating it.
	replaced := false
	for i, c := range board.Collaborators {
		if c.UserID == collaborator.UserID {
			board.Collaborators[i].Level = collaborator.Level
			replaced = true
			break
		}
	}
	if !replaced {
		board.Collaborators = append(board.Collaborators, collaborator)
	}
	board.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, board); err != nil {
		return err
	}

	s.reads.Delete(readKey(id))
	s.logger.Infow("board shared",
		"board_id", id,
		"actor", actor,
		"collaborator", collaborator.UserID,
		"level", collaborator.Level,
	)
	return nil
}

func (s *boardService) UnshareBoard(ctx context.Context, id domain.BoardID, actor, collaborator domain.UserID) error {
	board, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireSharePermission(board, actor); err != nil {
		return err
	}

	kept := board.Collaborators[:0]
	for _, c := range board.Collaborators {
		if c.UserID != collaborator {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(board.Collaborators) {
		return domain.ErrUserNotFound
	}
	board.Collaborators = kept
	board.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, board); err != nil {
		return err
	}

	s.reads.Delete(readKey(id))
	s.logger.Infow("board unshared", "board_id", id, "actor", actor, "collaborator", collaborator)
	return nil
}

func (s *boardService) SetVisibility(ctx context.Context, id domain.BoardID, actor domain.UserID, public bool) error {
	board, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if board.OwnerID != actor {
		return domain.ErrPermissionDenied
	}

	board.Public = public
	board.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, board); err != nil {
		return err
	}

	s.reads.Delete(readKey(id))
	s.logger.Infow("board visibility changed", "board_id", id, "public", public)
	return nil
}

// requireSharePermission allows the owner and admin collaborators to manage
// the collaborator list.
func (s *boardService) requireSharePermission(board *domain.Board, actor domain.UserID) error {
	if board.OwnerID == actor {
		return nil
	}
	if level, ok := board.CollaboratorLevel(actor); ok && level == domain.LevelAdmin {
		return nil
	}
	return domain.ErrPermissionDenied
}
