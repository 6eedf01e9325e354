package hub

import (
	"sort"
	"sync"

	"inknet/internal/core/domain"

	"go.uber.org/zap"
)

// Conn is the write side of one live connection. The transport implementation
// serializes concurrent Sends; tests substitute their own.
type Conn interface {
	Send(msg ServerMessage) error
	Close() error
}

// member ties a registered session to its transport. The registry holds a
// back-reference to the session owned by the connection handler, never a copy.
type member struct {
	session *domain.Session
	conn    Conn
}

// Registry is the hub's only shared mutable state: the live membership of
// every open room. Join and Leave take the write lock; Snapshot and Broadcast
// iterate under the read lock, so a broadcast can never observe a
// half-updated member set. Room entries are created lazily on first join and
// dropped as soon as the last member leaves.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[domain.BoardID]map[domain.ConnID]*member
	logger *zap.SugaredLogger
}

func NewRegistry(logger *zap.SugaredLogger) *Registry {
	return &Registry{
		rooms:  make(map[domain.BoardID]map[domain.ConnID]*member),
		logger: logger,
	}
}

// Join inserts the session into the room's member set, creating the room if
// it does not exist yet.
func (r *Registry) Join(roomID domain.BoardID, session *domain.Session, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		room = make(map[domain.ConnID]*member)
		r.rooms[roomID] = room
		r.logger.Debugw("room opened", "board_id", roomID)
	}
	room[session.ConnID] = &member{session: session, conn: conn}
}

// Leave removes the connection from the room's member set. It is idempotent:
// leaving a room the connection is not in is a no-op. Returns whether an
// entry was actually removed.
func (r *Registry) Leave(roomID domain.BoardID, connID domain.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return false
	}
	if _, ok := room[connID]; !ok {
		return false
	}
	delete(room, connID)
	if len(room) == 0 {
		delete(r.rooms, roomID)
		r.logger.Debugw("room closed", "board_id", roomID)
	}
	return true
}

// Snapshot returns the room's membership at the instant of the call, sorted
// by connection id for determinism. The result is a copy; it does not go
// stale-unsafe as membership changes afterwards.
func (r *Registry) Snapshot(roomID domain.BoardID) []domain.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[roomID]
	members := make([]domain.Member, 0, len(room))
	for _, m := range room {
		members = append(members, domain.Member{
			ConnID:   m.session.ConnID,
			UserID:   m.session.UserID,
			Username: m.session.Username,
			Role:     m.session.Grant.Role,
		})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ConnID < members[j].ConnID })
	return members
}

// Broadcast delivers msg to every member of the room except exclude.
// Delivery is best-effort: a send failing on one member (its transport having
// just closed) does not abort delivery to the rest.
func (r *Registry) Broadcast(roomID domain.BoardID, exclude domain.ConnID, msg ServerMessage) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for connID, m := range r.rooms[roomID] {
		if connID == exclude {
			continue
		}
		if err := m.conn.Send(msg); err != nil {
			r.logger.Debugw("broadcast send failed",
				"board_id", roomID,
				"connection_id", connID,
				"error", err,
			)
		}
	}
}

// Stats returns the number of open rooms and registered sessions.
func (r *Registry) Stats() (rooms, sessions int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms = len(r.rooms)
	for _, room := range r.rooms {
		sessions += len(room)
	}
	return rooms, sessions
}
