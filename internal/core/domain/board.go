package domain

import "time"

type BoardID string

// AccessLevel is the permission level granted to a collaborator on a board.
type AccessLevel string

const (
	LevelView  AccessLevel = "view"
	LevelEdit  AccessLevel = "edit"
	LevelAdmin AccessLevel = "admin"
)

// Valid reports whether the level is one of the known collaborator levels.
func (l AccessLevel) Valid() bool {
	switch l {
	case LevelView, LevelEdit, LevelAdmin:
		return true
	}
	return false
}

type Collaborator struct {
	UserID UserID      `json:"user_id"`
	Level  AccessLevel `json:"level"`
}

// Board is the access-control record of one shared canvas: who owns it, who
// collaborates on it at which level, and whether anyone may view it. The hub
// reads this record at join time and never mutates it; mutations go through
// the board service (REST surface).
type Board struct {
	ID            BoardID        `json:"id"`
	Name          string         `json:"name"`
	OwnerID       UserID         `json:"owner_id"`
	Collaborators []Collaborator `json:"collaborators"`
	Public        bool           `json:"public"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Clone returns a deep copy. Stores hand out clones so a caller can mutate
// its record without affecting concurrent readers.
func (b *Board) Clone() *Board {
	cp := *b
	cp.Collaborators = append([]Collaborator(nil), b.Collaborators...)
	return &cp
}

// CollaboratorLevel returns the access level granted to the given user, if any.
func (b *Board) CollaboratorLevel(id UserID) (AccessLevel, bool) {
	for _, c := range b.Collaborators {
		if c.UserID == id {
			return c.Level, true
		}
	}
	return "", false
}
