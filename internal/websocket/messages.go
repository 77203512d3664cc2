package websocket

import (
	"agrodash/internal/dataprocessing"
	apierrors "agrodash/internal/errors"
	"agrodash/internal/services"
)

// Message types
const (
	TypeRun       = "run"
	TypeHeartbeat = "heartbeat"
	TypeResult    = "result"
	TypeError     = "error"
)

// Request asks for one pipeline run. An empty Type means TypeRun and an
// empty Mode the first visualization mode.
type Request struct {
	Type     string                   `json:"type,omitempty"`
	ID       string                   `json:"id,omitempty"`
	Criteria services.CriteriaRequest `json:"criteria"`
	Mode     string                   `json:"mode,omitempty"`
}

// Response answers one Request. ID echoes the request.
type Response struct {
	Type   string                    `json:"type"`
	ID     string                    `json:"id,omitempty"`
	Result *dataprocessing.Result    `json:"result,omitempty"`
	Error  *apierrors.ProblemDetails `json:"error,omitempty"`
}
