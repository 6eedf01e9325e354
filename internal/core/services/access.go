package services

import (
	"inknet/internal/core/domain"
)

// ResolveAccess maps a board's access record and a user id to the grant that
// user holds on the board. It is a pure function: no I/O, no clock, and the
// same inputs always produce the same grant. Precedence, first match wins:
//
//  1. owner
//  2. collaborator entry (level decides the role)
//  3. public visibility (view only)
//  4. denied
func ResolveAccess(board *domain.Board, userID domain.UserID) (domain.Grant, error) {
	if board.OwnerID == userID {
		return domain.Grant{Role: domain.RoleOwner, CanEdit: true}, nil
	}

	if level, ok := board.CollaboratorLevel(userID); ok {
		return domain.Grant{
			Role:    roleForLevel(level),
			CanEdit: level == domain.LevelEdit || level == domain.LevelAdmin,
		}, nil
	}

	if board.Public {
		return domain.Grant{Role: domain.RoleView, CanEdit: false}, nil
	}

	return domain.Grant{}, domain.ErrAccessDenied
}

func roleForLevel(level domain.AccessLevel) domain.Role {
	switch level {
	case domain.LevelAdmin:
		return domain.RoleAdmin
	case domain.LevelEdit:
		return domain.RoleEdit
	default:
		return domain.RoleView
	}
}
