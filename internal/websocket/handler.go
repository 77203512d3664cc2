package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	apierrors "agrodash/internal/errors"
	"agrodash/internal/infrastructure"
)

// Options configures a Handler.
type Options struct {
	// AllowedOrigins lists the origins allowed to connect. Empty or "*"
	// allows any origin.
	AllowedOrigins []string
	RunTimeout     time.Duration
	Metrics        *Metrics
}

// Handler upgrades requests on /ws and serves a Session on each connection.
type Handler struct {
	upgrader     websocket.Upgrader
	hub          *Hub
	runner       Runner
	errorHandler *apierrors.ErrorHandler
	opts         Options
	logger       *slog.Logger
}

// NewHandler creates a Handler registering its sessions with hub.
func NewHandler(hub *Hub, runner Runner, errorHandler *apierrors.ErrorHandler, opts Options, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		hub:          hub,
		runner:       runner,
		errorHandler: errorHandler,
		opts:         opts,
		logger:       logger.With(slog.String("component", "websocket.handler")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.opts.AllowedOrigins) == 0 {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) || strings.EqualFold(allowed, u.Host) {
			return true
		}
	}
	return false
}

// ServeHTTP handles GET /ws. It returns when the connection closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already answered the request
		h.logger.WarnContext(r.Context(), "WebSocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr))
		return
	}

	// Runs outlive the request deadline but keep its trace ID
	ctx := context.WithoutCancel(r.Context())
	traceID := infrastructure.GetTraceID(ctx)

	session := NewSession(ctx, NewConnectionWrapper(conn), SessionConfig{
		Runner: h.runner,
		Problems: func(err error) *apierrors.ProblemDetails {
			return h.errorHandler.ErrorToProblem(err, r).WithExtension("trace_id", traceID)
		},
		RunTimeout: h.opts.RunTimeout,
		Metrics:    h.opts.Metrics,
		Logger:     h.logger.With(slog.String("trace_id", traceID)),
	})
	if !h.hub.Register(session) {
		conn.Close()
		return
	}
	defer h.hub.Unregister(session)

	h.opts.Metrics.connected(ctx)
	start := time.Now()
	defer func() { h.opts.Metrics.disconnected(ctx, time.Since(start)) }()

	h.logger.InfoContext(ctx, "WebSocket session opened",
		slog.String("session_id", session.ID()),
		slog.String("remote_addr", conn.RemoteAddr().String()))

	go session.WritePump()
	session.ReadPump()
}
