package websocket

import (
	"log/slog"
	"sync"
)

// Hub keeps track of the open sessions so they can be closed on shutdown.
// Hijacked connections are not closed by http.Server.Shutdown.
type Hub struct {
	mu       sync.Mutex
	sessions map[*Session]struct{}
	closed   bool
	logger   *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sessions: make(map[*Session]struct{}),
		logger:   logger.With(slog.String("component", "websocket.hub")),
	}
}

// Register adds s. It reports false once the hub is closed, in which case
// the caller must drop the session.
func (h *Hub) Register(s *Session) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.sessions[s] = struct{}{}
	h.logger.Debug("Session registered",
		slog.String("session_id", s.id),
		slog.Int("active", len(h.sessions)))
	return true
}

// Unregister removes s.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, s)
}

// Count returns the number of open sessions.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Close closes every open session and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	sessions := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	if len(sessions) > 0 {
		h.logger.Info("Closing WebSocket sessions", slog.Int("count", len(sessions)))
	}
	for _, s := range sessions {
		s.Close()
	}
}
