package domain

import "time"

// ConnID identifies one live connection. It is assigned by the transport at
// upgrade time and never reused while the process lives.
type ConnID string

// Role is the access tier a session holds against the board it has joined.
type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
	RoleEdit  Role = "edit"
	RoleView  Role = "view"
)

// Grant is the authorization decision cached on a session for its lifetime in
// a room. Role and CanEdit are always set together.
type Grant struct {
	Role    Role `json:"role"`
	CanEdit bool `json:"can_edit"`
}

// CanAdminister reports whether the grant allows admin-gated events.
func (g Grant) CanAdminister() bool {
	return g.Role == RoleOwner || g.Role == RoleAdmin
}

// Session is the server-side record of one connected client: its identity,
// the room it currently occupies (empty until joined) and the grant resolved
// at join time. The grant is only ever rewritten by a subsequent join.
type Session struct {
	ConnID   ConnID
	UserID   UserID
	Username string
	RoomID   BoardID
	Grant    Grant
	JoinedAt time.Time
}

// InRoom reports whether the session is currently a room member.
func (s *Session) InRoom() bool {
	return s.RoomID != ""
}

// Member is one entry of a room membership snapshot.
type Member struct {
	ConnID   ConnID `json:"connection_id"`
	UserID   UserID `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
