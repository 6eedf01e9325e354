package hub

import (
	"encoding/json"

	"inknet/internal/core/domain"
)

// Inbound event types.
const (
	EventJoin       = "join"
	EventLeave      = "leave"
	EventDrawStart  = "draw-start"
	EventDraw       = "draw"
	EventDrawEnd    = "draw-end"
	EventNoteAdd    = "note-add"
	EventNoteUpdate = "note-update"
	EventNoteDelete = "note-delete"
	EventUndo       = "undo"
	EventRedo       = "redo"
	EventClearBoard = "clear-board"
	EventCursorMove = "cursor-move"
)

// Outbound event types.
const (
	EventRoomInfo   = "room-info"
	EventUserJoined = "user-joined"
	EventUserLeft   = "user-left"
	EventError      = "error"
)

// Error codes carried in error events. Errors are only ever delivered to the
// originating connection, never broadcast.
const (
	CodeAuthFailed       = "AUTH_FAILED"
	CodeInvalidEvent     = "INVALID_EVENT"
	CodeBoardNotFound    = "BOARD_NOT_FOUND"
	CodeAccessDenied     = "ACCESS_DENIED"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeJoinTimeout      = "JOIN_TIMEOUT"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL_ERROR"
)

// Envelope is the client-to-server message frame. Payloads of relayable
// events are opaque to the hub and forwarded verbatim.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Sender attributes a relayed event to the connection that produced it. The
// hub fills it in server-side so receivers never have to trust client-supplied
// identity fields.
type Sender struct {
	ConnID   domain.ConnID `json:"connection_id"`
	UserID   domain.UserID `json:"user_id"`
	Username string        `json:"username"`
}

// ServerMessage is the server-to-client frame. From is set only on relayed
// events.
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	From    *Sender     `json:"from,omitempty"`
}

type JoinPayload struct {
	BoardID domain.BoardID `json:"board_id"`
}

type RoomInfoPayload struct {
	BoardID  domain.BoardID  `json:"board_id"`
	Members  []domain.Member `json:"members"`
	YourRole domain.Role     `json:"your_role"`
	CanEdit  bool            `json:"can_edit"`
}

type UserJoinedPayload struct {
	ConnID   domain.ConnID `json:"connection_id"`
	UserID   domain.UserID `json:"user_id"`
	Username string        `json:"username"`
	Role     domain.Role   `json:"role"`
}

type UserLeftPayload struct {
	ConnID   domain.ConnID `json:"connection_id"`
	UserID   domain.UserID `json:"user_id"`
	Username string        `json:"username"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorMessage(code, message string) ServerMessage {
	return ServerMessage{
		Type:    EventError,
		Payload: ErrorPayload{Code: code, Message: message},
	}
}

// tier is the authorization class of an inbound event.
type tier int

const (
	// tierUngated events only require room membership.
	tierUngated tier = iota
	// tierEdit events require the session's cached CanEdit.
	tierEdit
	// tierAdmin events require role owner or admin.
	tierAdmin
)

// eventTiers classifies every relayable event into exactly one tier. Events
// absent from this table are not relayable at all.
var eventTiers = map[string]tier{
	EventDrawStart:  tierEdit,
	EventDraw:       tierEdit,
	EventDrawEnd:    tierEdit,
	EventNoteAdd:    tierEdit,
	EventNoteUpdate: tierEdit,
	EventNoteDelete: tierEdit,
	EventUndo:       tierEdit,
	EventRedo:       tierEdit,
	EventClearBoard: tierAdmin,
	EventCursorMove: tierUngated,
}
