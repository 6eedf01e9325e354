package hub

import (
	"inknet/internal/core/domain"

	"go.uber.org/zap"
)

// EventMetrics is the slice of the monitoring collector the relay reports to.
type EventMetrics interface {
	RecordEventRelayed(eventType string)
	RecordEventDenied(eventType string)
}

// Relay gates every inbound relayable event on the sender's cached grant and
// fans the permitted ones out to the rest of the room, tagged with the sender
// identity. It never re-fetches the access record; the grant cached on the
// session at join time is authoritative until the next join.
type Relay struct {
	registry *Registry
	metrics  EventMetrics
	logger   *zap.SugaredLogger
}

func NewRelay(registry *Registry, metrics EventMetrics, logger *zap.SugaredLogger) *Relay {
	return &Relay{
		registry: registry,
		metrics:  metrics,
		logger:   logger,
	}
}

// Dispatch handles one inbound event from a session. Permission failures are
// reported to the sender only; the event is dropped, never relayed. The
// returned error is always nil-safe to ignore: every failure mode is already
// answered on the sender's connection.
func (rl *Relay) Dispatch(session *domain.Session, conn Conn, env Envelope) {
	eventTier, known := eventTiers[env.Type]
	if !known {
		_ = conn.Send(errorMessage(CodeInvalidEvent, "unknown event type: "+env.Type))
		return
	}

	if !session.InRoom() {
		_ = conn.Send(errorMessage(CodePermissionDenied, "join a board before sending events"))
		rl.recordDenied(env.Type)
		return
	}

	switch eventTier {
	case tierEdit:
		if !session.Grant.CanEdit {
			_ = conn.Send(errorMessage(CodePermissionDenied, "editing requires edit access"))
			rl.recordDenied(env.Type)
			return
		}
	case tierAdmin:
		if !session.Grant.CanAdminister() {
			_ = conn.Send(errorMessage(CodePermissionDenied, "only the owner or an admin may do that"))
			rl.recordDenied(env.Type)
			return
		}
	case tierUngated:
		// Room membership, checked above, is enough.
	}

	rl.registry.Broadcast(session.RoomID, session.ConnID, ServerMessage{
		Type:    env.Type,
		Payload: env.Payload,
		From: &Sender{
			ConnID:   session.ConnID,
			UserID:   session.UserID,
			Username: session.Username,
		},
	})
	rl.recordRelayed(env.Type)
}

func (rl *Relay) recordRelayed(eventType string) {
	if rl.metrics != nil {
		rl.metrics.RecordEventRelayed(eventType)
	}
}

func (rl *Relay) recordDenied(eventType string) {
	if rl.metrics != nil {
		rl.metrics.RecordEventDenied(eventType)
	}
}
