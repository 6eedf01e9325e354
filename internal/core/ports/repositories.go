package ports

import (
	"context"

	"inknet/internal/core/domain"
)

type BoardRepository interface {
	Create(ctx context.Context, board *domain.Board) error
	GetByID(ctx context.Context, id domain.BoardID) (*domain.Board, error)
	Update(ctx context.Context, board *domain.Board) error
	Delete(ctx context.Context, id domain.BoardID) error
	ListByUser(ctx context.Context, userID domain.UserID) ([]*domain.Board, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
