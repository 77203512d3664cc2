package websocket

import (
	"context"
	"time"

	"agrodash/internal/dataprocessing"
	"agrodash/internal/services"
	"agrodash/pkg/contracts/domain"
)

// Connection defines the subset of a WebSocket connection a session uses.
// This allows for proper mocking in tests
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)
	RemoteAddr() string
}

// Runner resolves client criteria and runs the pipeline.
type Runner interface {
	Criteria(req services.CriteriaRequest) (domain.FilterCriteria, error)
	Run(ctx context.Context, c domain.FilterCriteria, mode domain.VisualizationMode) (*dataprocessing.Result, error)
}

var _ Runner = (*services.DashboardService)(nil)
