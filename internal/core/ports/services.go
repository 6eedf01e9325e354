package ports

import (
	"context"

	"inknet/internal/core/domain"
)

// AccessRecordSource is the hub's view of the board store: the single lookup
// the join path performs. Reliability wrappers implement it too.
type AccessRecordSource interface {
	FetchAccessRecord(ctx context.Context, id domain.BoardID) (*domain.Board, error)
}

type BoardService interface {
	CreateBoard(ctx context.Context, name string, owner domain.UserID, public bool) (*domain.Board, error)
	GetBoard(ctx context.Context, id domain.BoardID) (*domain.Board, error)
	ListBoards(ctx context.Context, userID domain.UserID) ([]*domain.Board, error)
	DeleteBoard(ctx context.Context, id domain.BoardID, actor domain.UserID) error
	ShareBoard(ctx context.Context, id domain.BoardID, actor domain.UserID, collaborator domain.Collaborator) error
	UnshareBoard(ctx context.Context, id domain.BoardID, actor, collaborator domain.UserID) error
	SetVisibility(ctx context.Context, id domain.BoardID, actor domain.UserID, public bool) error

	// FetchAccessRecord is the hub's join-path lookup. Unlike GetBoard it must
	// never serve a cached record: a join always observes the current one.
	FetchAccessRecord(ctx context.Context, id domain.BoardID) (*domain.Board, error)
}

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetUser(ctx context.Context, id domain.UserID) (*domain.User, error)
}
