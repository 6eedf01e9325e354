package domain

import "errors"

var (
	ErrBoardNotFound    = errors.New("board not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotRoomMember    = errors.New("not a room member")
	ErrBoardExists      = errors.New("board already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
)
