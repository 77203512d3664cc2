package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"agrodash/internal/config"
)

var (
	globalLogger *slog.Logger
	loggerMu     sync.RWMutex

	// logFile is the open log file when output includes "file"
	logFile *os.File
)

type contextKey string

// TraceIDContextKey is the context key holding the request trace ID.
const TraceIDContextKey contextKey = "trace_id"

// InitializeLogger builds the application logger from cfg and installs it
// as the slog default. Calling it again replaces the previous logger.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	out, file, err := logOutput(cfg)
	if err != nil {
		return nil, err
	}

	logger := NewLogger(out, cfg.Level)

	loggerMu.Lock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = file
	globalLogger = logger
	loggerMu.Unlock()

	slog.SetDefault(logger)
	return logger, nil
}

// NewLogger returns a JSON logger writing to w that tags every record with
// the trace ID carried by the record's context.
func NewLogger(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     ParseLogLevel(level),
	})
	return slog.New(&traceHandler{Handler: handler})
}

// GetLogger returns the application logger, or slog.Default before
// InitializeLogger has run.
func GetLogger() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

func logOutput(cfg config.LoggingConfig) (io.Writer, *os.File, error) {
	switch strings.ToLower(cfg.Output) {
	case "file":
		f, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	case "both":
		f, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return io.MultiWriter(os.Stdout, f), f, nil
	default:
		return os.Stdout, nil, nil
	}
}

// traceHandler injects trace_id, and span_id when an OpenTelemetry span is
// active, into every record.
type traceHandler struct {
	slog.Handler
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceID := GetTraceID(ctx); traceID != "" {
		r.AddAttrs(slog.String("trace_id", traceID))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasSpanID() {
		r.AddAttrs(slog.String("span_id", sc.SpanID().String()))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}

// ParseLogLevel converts a configured level name to a slog.Level.
// Unknown names map to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithTraceID returns a copy of ctx carrying traceID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDContextKey, traceID)
}

// GetTraceID returns the trace ID stored in ctx. When none was stored
// explicitly, the active OpenTelemetry trace ID is used.
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(TraceIDContextKey).(string); ok {
		return traceID
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

// CloseLogFile closes the log file opened by InitializeLogger, if any.
func CloseLogFile() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func openLogFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return nil, fmt.Errorf("log output requires a file path")
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", filePath, err)
	}
	return f, nil
}
