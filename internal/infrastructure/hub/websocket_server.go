package hub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"inknet/internal/core/domain"
	"inknet/internal/core/ports"
	"inknet/internal/core/services"
	"inknet/pkg/config"
	"inknet/pkg/tracing"
	"inknet/pkg/utils"
	"inknet/pkg/validation"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Metrics is what the hub reports to the monitoring collector.
type Metrics interface {
	EventMetrics
	RecordJoin(result string, duration time.Duration)
	SetLive(rooms, sessions int)
}

// Server owns the WebSocket transport of the hub: it authenticates upgrades,
// runs one reader per connection, drives the join/leave choreography and
// funnels every kind of disconnect through a single cleanup path.
type Server struct {
	registry *Registry
	relay    *Relay
	auth     services.AuthService
	boards   ports.AccessRecordSource
	metrics  Metrics
	logger   *zap.SugaredLogger

	upgrader websocket.Upgrader

	pingInterval   time.Duration
	pongTimeout    time.Duration
	writeTimeout   time.Duration
	joinTimeout    time.Duration
	maxMessageSize int64

	msgRate  rate.Limit
	msgBurst int
}

func NewServer(
	registry *Registry,
	relay *Relay,
	auth services.AuthService,
	boards ports.AccessRecordSource,
	metrics Metrics,
	cfg *config.Config,
	logger *zap.SugaredLogger,
) *Server {
	return &Server{
		registry: registry,
		relay:    relay,
		auth:     auth,
		boards:   boards,
		metrics:  metrics,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.Auth.AllowedOrigins),
		},
		pingInterval:   cfg.Hub.PingInterval,
		pongTimeout:    cfg.Hub.PongTimeout,
		writeTimeout:   cfg.Hub.WriteTimeout,
		joinTimeout:    cfg.Hub.JoinTimeout,
		maxMessageSize: cfg.Hub.MaxMessageSizeBytes,
		msgRate:        rate.Limit(cfg.RateLimiting.WebSocket.MessagesPerSecond),
		msgBurst:       cfg.RateLimiting.WebSocket.Burst,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		allowedSet[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		_, ok := allowedSet[r.Header.Get("Origin")]
		return ok
	}
}

// HandleWebSocket is the upgrade endpoint: GET /ws?token=...
// Identity is resolved before the upgrade; a bad token never becomes a
// session.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := bearerOrQueryToken(r)
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := s.auth.ValidateToken(token)
	if err != nil {
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	identity := claims.Identity()
	session := &domain.Session{
		ConnID:   domain.ConnID(utils.GenerateID("conn")),
		UserID:   identity.ID,
		Username: identity.Username,
	}
	wc := newWSConn(conn, s.writeTimeout)

	s.logger.Infow("client connected",
		"connection_id", session.ConnID,
		"user_id", session.UserID,
		"username", session.Username,
	)

	s.serve(session, wc)

	// Cleanup runs for every disconnect, graceful or abrupt: the session is
	// evicted before anyone else can observe it as a ghost member.
	s.leaveRoom(session, wc)
	_ = wc.Close()
	s.publishLiveStats()
	s.logger.Infow("client disconnected", "connection_id", session.ConnID, "user_id", session.UserID)
}

func bearerOrQueryToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(auth[len("Bearer "):])
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

// serve runs the connection's event loop until the transport fails or closes.
func (s *Server) serve(session *domain.Session, wc *wsConn) {
	conn := wc.conn
	conn.SetReadLimit(s.maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(s.pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.pongTimeout))
	})

	messages := make(chan Envelope, 16)
	readErr := make(chan error, 1)
	go func() {
		for {
			var env Envelope
			if err := conn.ReadJSON(&env); err != nil {
				readErr <- err
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(s.pongTimeout))
			messages <- env
		}
	}()

	pingTicker := time.NewTicker(s.pingInterval)
	defer pingTicker.Stop()

	limiter := rate.NewLimiter(s.msgRate, s.msgBurst)

	for {
		select {
		case env := <-messages:
			if !limiter.Allow() {
				_ = wc.Send(errorMessage(CodeRateLimited, "message rate limit exceeded"))
				continue
			}
			s.handleEvent(session, wc, env)

		case <-pingTicker.C:
			if err := wc.Ping(); err != nil {
				return
			}

		case err := <-readErr:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Debugw("read failed", "connection_id", session.ConnID, "error", err)
			}
			return
		}
	}
}

func (s *Server) handleEvent(session *domain.Session, wc *wsConn, env Envelope) {
	switch env.Type {
	case EventJoin:
		s.handleJoin(session, wc, env.Payload)
	case EventLeave:
		s.leaveRoom(session, wc)
		s.publishLiveStats()
	default:
		s.relay.Dispatch(session, wc, env)
	}
}

// handleJoin runs the join choreography: resolve the access record, derive
// the grant, admit, answer the joiner with the post-admission snapshot and
// announce the arrival to everyone already there. The session is not
// registered anywhere while the lookup is in flight, so no broadcast can
// target it early. A join while already a room member is an implicit
// migration: the old room gets a departure notice first.
func (s *Server) handleJoin(session *domain.Session, wc *wsConn, payload json.RawMessage) {
	start := time.Now()

	var req JoinPayload
	if err := json.Unmarshal(payload, &req); err != nil || req.BoardID == "" {
		_ = wc.Send(errorMessage(CodeInvalidEvent, "join requires a board_id"))
		return
	}
	if err := validation.ValidateBoardID(string(req.BoardID)); err != nil {
		_ = wc.Send(errorMessage(CodeInvalidEvent, err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.joinTimeout)
	defer cancel()
	ctx, span := tracing.TraceJoin(ctx, string(req.BoardID), string(session.ConnID))
	defer span.End()

	board, err := s.boards.FetchAccessRecord(ctx, req.BoardID)
	if err != nil {
		tracing.RecordError(ctx, err)
		s.recordJoinFailure(session, wc, req.BoardID, err)
		return
	}

	grant, err := services.ResolveAccess(board, session.UserID)
	if err != nil {
		s.metrics.RecordJoin("denied", time.Since(start))
		_ = wc.Send(errorMessage(CodeAccessDenied, "you do not have access to this board"))
		return
	}

	// Migration out of the previous room happens before the grant is
	// rewritten; the departure notice must carry the old identity/room.
	s.leaveRoom(session, wc)

	session.RoomID = req.BoardID
	session.Grant = grant
	session.JoinedAt = time.Now()
	s.registry.Join(req.BoardID, session, wc)

	// Snapshot is computed after admission so the joiner sees itself and
	// races with concurrent joins resolve to a superset, never a miss.
	_ = wc.Send(ServerMessage{
		Type: EventRoomInfo,
		Payload: RoomInfoPayload{
			BoardID:  req.BoardID,
			Members:  s.registry.Snapshot(req.BoardID),
			YourRole: grant.Role,
			CanEdit:  grant.CanEdit,
		},
	})

	s.registry.Broadcast(req.BoardID, session.ConnID, ServerMessage{
		Type: EventUserJoined,
		Payload: UserJoinedPayload{
			ConnID:   session.ConnID,
			UserID:   session.UserID,
			Username: session.Username,
			Role:     grant.Role,
		},
	})

	s.metrics.RecordJoin("ok", time.Since(start))
	s.publishLiveStats()
	s.logger.Infow("session joined board",
		"connection_id", session.ConnID,
		"user_id", session.UserID,
		"board_id", req.BoardID,
		"role", grant.Role,
	)
}

func (s *Server) recordJoinFailure(session *domain.Session, wc *wsConn, boardID domain.BoardID, err error) {
	switch {
	case errors.Is(err, domain.ErrBoardNotFound):
		s.metrics.RecordJoin("not_found", 0)
		_ = wc.Send(errorMessage(CodeBoardNotFound, "board not found"))
	case errors.Is(err, context.DeadlineExceeded):
		s.metrics.RecordJoin("timeout", 0)
		_ = wc.Send(errorMessage(CodeJoinTimeout, "join timed out"))
	default:
		s.metrics.RecordJoin("error", 0)
		s.logger.Errorw("access record lookup failed",
			"connection_id", session.ConnID,
			"board_id", boardID,
			"error", err,
		)
		// No internal detail leaks to the client.
		_ = wc.Send(errorMessage(CodeInternal, "could not join board"))
	}
}

// leaveRoom evicts the session from its current room, if any, and announces
// the departure to the remaining members. Idempotent.
func (s *Server) leaveRoom(session *domain.Session, wc *wsConn) {
	if !session.InRoom() {
		return
	}

	roomID := session.RoomID
	if s.registry.Leave(roomID, session.ConnID) {
		s.registry.Broadcast(roomID, session.ConnID, ServerMessage{
			Type: EventUserLeft,
			Payload: UserLeftPayload{
				ConnID:   session.ConnID,
				UserID:   session.UserID,
				Username: session.Username,
			},
		})
		s.logger.Infow("session left board",
			"connection_id", session.ConnID,
			"user_id", session.UserID,
			"board_id", roomID,
		)
	}
	session.RoomID = ""
	session.Grant = domain.Grant{}
}

func (s *Server) publishLiveStats() {
	rooms, sessions := s.registry.Stats()
	s.metrics.SetLive(rooms, sessions)
}

// wsConn wraps a gorilla connection with serialized, deadline-bounded writes
// so registry broadcasts from other connections' goroutines never interleave
// frames.
type wsConn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

func newWSConn(conn *websocket.Conn, writeTimeout time.Duration) *wsConn {
	return &wsConn{conn: conn, writeTimeout: writeTimeout}
}

func (c *wsConn) Send(msg ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return websocket.ErrCloseSent
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.conn.WriteJSON(msg)
}

func (c *wsConn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return websocket.ErrCloseSent
	}
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout))
}

func (c *wsConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
