// Package testutil provides test helpers shared across packages.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogEntry is one captured log record with its attributes flattened.
type LogEntry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type logStore struct {
	mu      sync.Mutex
	entries []LogEntry
}

// LogCapture is a slog.Handler that keeps every record in memory. Handlers
// derived with WithAttrs share the same store.
type LogCapture struct {
	store *logStore
	attrs []slog.Attr
	t     testing.TB
}

// NewTestLogger returns a logger writing into a fresh LogCapture.
func NewTestLogger(t testing.TB) (*slog.Logger, *LogCapture) {
	h := &LogCapture{store: &logStore{}, t: t}
	return slog.New(h), h
}

func (h *LogCapture) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.store.mu.Lock()
	h.store.entries = append(h.store.entries, LogEntry{Level: r.Level, Message: r.Message, Attrs: attrs})
	h.store.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

func (h *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &LogCapture{store: h.store, attrs: merged, t: h.t}
}

// WithGroup is a no-op; captured attributes are flat.
func (h *LogCapture) WithGroup(string) slog.Handler {
	return h
}

// Entries returns a copy of the captured records.
func (h *LogCapture) Entries() []LogEntry {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return append([]LogEntry(nil), h.store.entries...)
}

// Count returns the number of captured records.
func (h *LogCapture) Count() int {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return len(h.store.entries)
}

// ContainsMessage reports whether any record message contains substr.
func (h *LogCapture) ContainsMessage(substr string) bool {
	for _, e := range h.Entries() {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any record carries key with value.
func (h *LogCapture) ContainsAttr(key string, value any) bool {
	for _, e := range h.Entries() {
		if v, ok := e.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}

// AtLevel returns the records logged at level.
func (h *LogCapture) AtLevel(level slog.Level) []LogEntry {
	var out []LogEntry
	for _, e := range h.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
