package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	apierrors "agrodash/internal/errors"
	"agrodash/pkg/contracts/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	sendBuffer = 8
)

// SessionConfig holds the collaborators of a Session.
type SessionConfig struct {
	Runner Runner
	// Problems maps a failed run to the problem sent to the client.
	Problems   func(error) *apierrors.ProblemDetails
	RunTimeout time.Duration
	Metrics    *Metrics
	Logger     *slog.Logger
}

// Session serves one WebSocket connection. Requests are handled in the
// order they arrive and a new run starts only after the previous one has
// been answered.
type Session struct {
	id          string
	conn        Connection
	cfg         SessionConfig
	send        chan []byte
	connectedAt time.Time
	logger      *slog.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	runs int64
}

// NewSession creates a session on conn. ctx scopes every run; it is
// cancelled when the session ends.
func NewSession(ctx context.Context, conn Connection, cfg SessionConfig) *Session {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Problems == nil {
		cfg.Problems = func(err error) *apierrors.ProblemDetails {
			return apierrors.NewProblemDetails(http.StatusInternalServerError, apierrors.TypeInternal,
				"Internal Server Error", err.Error(), "")
		}
	}

	id := uuid.New().String()
	ctx, cancel := context.WithCancel(ctx)
	return &Session{
		id:          id,
		conn:        conn,
		cfg:         cfg,
		send:        make(chan []byte, sendBuffer),
		connectedAt: time.Now(),
		logger: cfg.Logger.With(
			slog.String("component", "websocket.session"),
			slog.String("session_id", id),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Close ends the session. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.conn.Close()
	})
}

// ReadPump reads requests until the connection fails or is closed,
// answering each one in turn.
func (s *Session) ReadPump() {
	defer func() {
		s.logger.InfoContext(s.ctx, "WebSocket session closed",
			slog.Duration("connection_duration", time.Since(s.connectedAt)),
			slog.Int64("runs", s.runs))
		// WritePump sends the close frame and closes the connection
		s.cancel()
		close(s.send)
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error { s.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.ErrorContext(s.ctx, "Unexpected WebSocket close error",
					slog.String("error", err.Error()))
			}
			return
		}
		// Any client message counts as activity
		s.conn.SetReadDeadline(time.Now().Add(pongWait))

		resp := s.handle(bytes.TrimSpace(message))
		if resp == nil {
			continue
		}
		data, err := json.Marshal(resp)
		if err != nil {
			s.logger.ErrorContext(s.ctx, "Failed to encode response", slog.String("error", err.Error()))
			data, _ = json.Marshal(s.failure(resp.ID, err))
		}
		s.cfg.Metrics.message(s.ctx, "out", resp.Type)

		select {
		case s.send <- data:
		case <-s.ctx.Done():
			return
		}
	}
}

// WritePump writes responses and keep-alive pings until the session ends.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.ErrorContext(s.ctx, "Error writing message to WebSocket",
					slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.DebugContext(s.ctx, "Failed to send ping message",
					slog.String("error", err.Error()))
				return
			}
		}
	}
}

// handle answers one raw request; heartbeats get no answer.
func (s *Session) handle(message []byte) *Response {
	var req Request
	if err := json.Unmarshal(message, &req); err != nil {
		s.cfg.Metrics.message(s.ctx, "in", "invalid")
		return s.failure("", apierrors.InvalidParameter("message", err))
	}

	switch req.Type {
	case TypeHeartbeat:
		s.cfg.Metrics.message(s.ctx, "in", TypeHeartbeat)
		s.logger.Debug("Heartbeat received")
		return nil
	case "", TypeRun:
		s.cfg.Metrics.message(s.ctx, "in", TypeRun)
	default:
		s.cfg.Metrics.message(s.ctx, "in", "invalid")
		return s.failure(req.ID, apierrors.InvalidParameter("type", fmt.Errorf("unknown message type %q", req.Type)))
	}

	mode := domain.Modes()[0]
	if req.Mode != "" {
		var err error
		if mode, err = domain.ParseMode(req.Mode); err != nil {
			return s.failure(req.ID, apierrors.InvalidParameter("mode", err))
		}
	}

	c, err := s.cfg.Runner.Criteria(req.Criteria)
	if err != nil {
		return s.failure(req.ID, err)
	}

	ctx := s.ctx
	if s.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RunTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.cfg.Runner.Run(ctx, c, mode)
	s.runs++
	if err != nil {
		s.logger.WarnContext(ctx, "Run failed",
			slog.String("mode", string(mode)),
			slog.String("error", err.Error()))
		return s.failure(req.ID, err)
	}

	s.logger.DebugContext(ctx, "Run completed",
		slog.String("mode", string(mode)),
		slog.Int("records", res.View.Len()),
		slog.Duration("duration", time.Since(start)))
	return &Response{Type: TypeResult, ID: req.ID, Result: res}
}

func (s *Session) failure(id string, err error) *Response {
	return &Response{Type: TypeError, ID: id, Error: s.cfg.Problems(err)}
}
