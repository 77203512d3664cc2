package websocket

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the WebSocket instruments.
type Metrics struct {
	connectionsTotal   metric.Int64Counter
	connectionsActive  metric.Int64UpDownCounter
	connectionDuration metric.Float64Histogram
	messagesTotal      metric.Int64Counter
}

// NewMetrics creates the WebSocket instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)

	if m.connectionsTotal, err = meter.Int64Counter("websocket_connections_total",
		metric.WithDescription("Total number of WebSocket connections"),
		metric.WithUnit("{connection}")); err != nil {
		return nil, fmt.Errorf("websocket_connections_total: %w", err)
	}
	if m.connectionsActive, err = meter.Int64UpDownCounter("websocket_connections_active",
		metric.WithDescription("Number of active WebSocket connections"),
		metric.WithUnit("{connection}")); err != nil {
		return nil, fmt.Errorf("websocket_connections_active: %w", err)
	}
	if m.connectionDuration, err = meter.Float64Histogram("websocket_connection_duration_seconds",
		metric.WithDescription("WebSocket connection lifetime in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("websocket_connection_duration_seconds: %w", err)
	}
	if m.messagesTotal, err = meter.Int64Counter("websocket_messages_total",
		metric.WithDescription("WebSocket messages by direction and type"),
		metric.WithUnit("{message}")); err != nil {
		return nil, fmt.Errorf("websocket_messages_total: %w", err)
	}
	return &m, nil
}

func (m *Metrics) connected(ctx context.Context) {
	if m == nil {
		return
	}
	m.connectionsTotal.Add(ctx, 1)
	m.connectionsActive.Add(ctx, 1)
}

func (m *Metrics) disconnected(ctx context.Context, d time.Duration) {
	if m == nil {
		return
	}
	m.connectionsActive.Add(ctx, -1)
	m.connectionDuration.Record(ctx, d.Seconds())
}

func (m *Metrics) message(ctx context.Context, direction, msgType string) {
	if m == nil {
		return
	}
	m.messagesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("direction", direction),
		attribute.String("type", msgType)))
}
