package hub

import (
	"fmt"
	"sync"
	"testing"

	"inknet/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeConn records everything sent to it.
type fakeConn struct {
	mu     sync.Mutex
	sent   []ServerMessage
	failed bool
}

func (c *fakeConn) Send(msg ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed {
		return fmt.Errorf("connection closed")
	}
	c.sent = append(c.sent, msg)
	return nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) messages() []ServerMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ServerMessage(nil), c.sent...)
}

func newTestSession(connID, userID string, room domain.BoardID, grant domain.Grant) *domain.Session {
	return &domain.Session{
		ConnID:   domain.ConnID(connID),
		UserID:   domain.UserID(userID),
		Username: userID,
		RoomID:   room,
		Grant:    grant,
	}
}

func TestRegistryJoinAndSnapshot(t *testing.T) {
	r := NewRegistry(zap.NewNop().Sugar())

	r.Join("board-1", newTestSession("conn-b", "bob", "board-1", domain.Grant{Role: domain.RoleEdit, CanEdit: true}), &fakeConn{})
	r.Join("board-1", newTestSession("conn-a", "alice", "board-1", domain.Grant{Role: domain.RoleOwner, CanEdit: true}), &fakeConn{})

	members := r.Snapshot("board-1")
	require.Len(t, members, 2)
	// Sorted by connection id.
	assert.Equal(t, domain.ConnID("conn-a"), members[0].ConnID)
	assert.Equal(t, domain.ConnID("conn-b"), members[1].ConnID)
	assert.Equal(t, domain.RoleOwner, members[0].Role)
}

func TestRegistryLeaveIsIdempotent(t *testing.T) {
	r := NewRegistry(zap.NewNop().Sugar())
	r.Join("board-1", newTestSession("conn-a", "alice", "board-1", domain.Grant{}), &fakeConn{})

	assert.True(t, r.Leave("board-1", "conn-a"))
	assert.False(t, r.Leave("board-1", "conn-a"))
	assert.False(t, r.Leave("nonexistent", "conn-a"))
}

// The last leave drops the room entirely; an empty room is never observable.
func TestRegistryDropsEmptyRooms(t *testing.T) {
	r := NewRegistry(zap.NewNop().Sugar())
	r.Join("board-1", newTestSession("conn-a", "alice", "board-1", domain.Grant{}), &fakeConn{})

	rooms, sessions := r.Stats()
	assert.Equal(t, 1, rooms)
	assert.Equal(t, 1, sessions)

	r.Leave("board-1", "conn-a")

	rooms, sessions = r.Stats()
	assert.Equal(t, 0, rooms)
	assert.Equal(t, 0, sessions)
	assert.Empty(t, r.Snapshot("board-1"))
}

func TestRegistryBroadcastExcludesSender(t *testing.T) {
	r := NewRegistry(zap.NewNop().Sugar())
	sender := &fakeConn{}
	receiver := &fakeConn{}
	r.Join("board-1", newTestSession("conn-a", "alice", "board-1", domain.Grant{}), sender)
	r.Join("board-1", newTestSession("conn-b", "bob", "board-1", domain.Grant{}), receiver)

	r.Broadcast("board-1", "conn-a", ServerMessage{Type: EventDraw})

	assert.Empty(t, sender.messages())
	require.Len(t, receiver.messages(), 1)
	assert.Equal(t, EventDraw, receiver.messages()[0].Type)
}

// A failing member must not block delivery to the rest of the room.
func TestRegistryBroadcastIsBestEffort(t *testing.T) {
	r := NewRegistry(zap.NewNop().Sugar())
	broken := &fakeConn{failed: true}
	healthy := &fakeConn{}
	r.Join("board-1", newTestSession("conn-a", "alice", "board-1", domain.Grant{}), broken)
	r.Join("board-1", newTestSession("conn-b", "bob", "board-1", domain.Grant{}), healthy)

	r.Broadcast("board-1", "", ServerMessage{Type: EventCursorMove})

	require.Len(t, healthy.messages(), 1)
}

func TestRegistryBroadcastStaysInRoom(t *testing.T) {
	r := NewRegistry(zap.NewNop().Sugar())
	inRoom := &fakeConn{}
	elsewhere := &fakeConn{}
	r.Join("board-1", newTestSession("conn-a", "alice", "board-1", domain.Grant{}), inRoom)
	r.Join("board-2", newTestSession("conn-b", "bob", "board-2", domain.Grant{}), elsewhere)

	r.Broadcast("board-1", "", ServerMessage{Type: EventDraw})

	assert.Len(t, inRoom.messages(), 1)
	assert.Empty(t, elsewhere.messages())
}

func TestRegistryConcurrentChurn(t *testing.T) {
	r := NewRegistry(zap.NewNop().Sugar())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			connID := domain.ConnID(fmt.Sprintf("conn-%d", i))
			session := newTestSession(string(connID), fmt.Sprintf("user-%d", i), "board-1", domain.Grant{})
			r.Join("board-1", session, &fakeConn{})
			r.Snapshot("board-1")
			r.Broadcast("board-1", connID, ServerMessage{Type: EventCursorMove})
			r.Leave("board-1", connID)
		}(i)
	}
	wg.Wait()

	rooms, sessions := r.Stats()
	assert.Equal(t, 0, rooms)
	assert.Equal(t, 0, sessions)
}
