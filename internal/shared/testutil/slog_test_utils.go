package testutil

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
)

// Entry is one captured log line with its attributes flattened to
// dotted keys.
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogCapture collects everything logged through the loggers handed out by
// NewTestLogger, including loggers derived with With and WithGroup.
type LogCapture struct {
	mu      sync.Mutex
	entries []Entry
}

// NewTestLogger returns a debug-level logger whose output is captured and
// echoed to t.Log.
func NewTestLogger(t testing.TB) (*slog.Logger, *LogCapture) {
	capture := &LogCapture{}
	return slog.New(&captureHandler{capture: capture, t: t}), capture
}

// Entries returns a copy of the captured entries in logging order.
func (c *LogCapture) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.entries)
}

// AtLevel returns the entries logged at exactly level.
func (c *LogCapture) AtLevel(level slog.Level) []Entry {
	var out []Entry
	for _, e := range c.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// ContainsMessage reports whether any entry's message contains substr.
func (c *LogCapture) ContainsMessage(substr string) bool {
	return slices.ContainsFunc(c.Entries(), func(e Entry) bool {
		return strings.Contains(e.Message, substr)
	})
}

// ContainsAttr reports whether any entry has key set to value. Integer
// attributes compare as int64.
func (c *LogCapture) ContainsAttr(key string, value any) bool {
	return slices.ContainsFunc(c.Entries(), func(e Entry) bool {
		v, ok := e.Attrs[key]
		return ok && v == value
	})
}

// Count is the number of captured entries.
func (c *LogCapture) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset drops the captured entries.
func (c *LogCapture) Reset() {
	c.mu.Lock()
	c.entries = nil
	c.mu.Unlock()
}

func (c *LogCapture) add(e Entry) {
	c.mu.Lock()
	c.entries = append(c.entries, e)
	c.mu.Unlock()
}

// AssertLogContains fails t unless a message containing substr was logged
// at level.
func AssertLogContains(t testing.TB, c *LogCapture, level slog.Level, substr string) {
	t.Helper()
	entries := c.AtLevel(level)
	for _, e := range entries {
		if strings.Contains(e.Message, substr) {
			return
		}
	}
	t.Errorf("no %s entry contains %q; have %d at that level", level, substr, len(entries))
}

// AssertLogAttr fails t unless some entry carries key=value.
func AssertLogAttr(t testing.TB, c *LogCapture, key string, value any) {
	t.Helper()
	if !c.ContainsAttr(key, value) {
		t.Errorf("no entry carries %s=%v", key, value)
	}
}

type captureHandler struct {
	capture *LogCapture
	t       testing.TB
	prefix  string
	attrs   []slog.Attr
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.prefix+a.Key] = a.Value.Any()
		return true
	})
	h.capture.add(Entry{Level: r.Level, Message: r.Message, Attrs: attrs})
	if h.t != nil {
		h.t.Logf("%s %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = slices.Clip(h.attrs)
	for _, a := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &next
}

func (h *captureHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}
