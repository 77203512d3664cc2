package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "agrodash/internal/errors"
	"agrodash/internal/services"
)

// maxClientLogBytes bounds the body of a client log entry.
const maxClientLogBytes = 16 << 10

// ClientLogHandler handles client-side logging requests
type ClientLogHandler struct {
	logger       *slog.Logger
	validate     *validator.Validate
	errorHandler *apierrors.ErrorHandler
}

// NewClientLogHandler creates a new client log handler
func NewClientLogHandler(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ClientLogHandler {
	return &ClientLogHandler{
		logger:       logger.With(slog.String("handler", "client_log")),
		validate:     services.NewValidator(),
		errorHandler: errorHandler,
	}
}

// LogRequest represents a client log entry
type LogRequest struct {
	Level   string                 `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Message string                 `json:"message" validate:"required,max=1024"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Source  string                 `json:"source,omitempty" validate:"max=128"`
}

var clientLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Handle handles POST /api/logs
func (h *ClientLogHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClientLogBytes)).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("body", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	level, ok := clientLevels[req.Level]
	if !ok {
		level = slog.LevelInfo
	}
	attrs := []slog.Attr{slog.String("client_source", req.Source)}
	if req.Data != nil {
		attrs = append(attrs, slog.Any("data", req.Data))
	}
	h.logger.LogAttrs(r.Context(), level, req.Message, attrs...)

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]interface{}{"success": true})
}
