package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esgdash/internal/config"
)

func decodeLines(t *testing.T, raw string) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line: %s", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestInitializeLogger_FileOutput(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "esgdash.log")
	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Output:   "file",
		FilePath: logFile,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	logger.Info("dataset loaded", "rows", 7)
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	entries := decodeLines(t, string(content))
	require.Len(t, entries, 1)
	assert.Equal(t, "dataset loaded", entries[0]["msg"])
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.EqualValues(t, 7, entries[0]["rows"])
}

func TestInitializeLogger_OnlyFirstCallApplies(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	first, err := InitializeLogger(config.LoggingConfig{Level: "warn", Output: "console"})
	require.NoError(t, err)
	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestCorrelationInjection(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Output: "console"}, &buf)
	require.NoError(t, err)

	ctx := WithRequestID(WithTraceID(context.Background(), "trace-123"), "req-9")
	logger.InfoContext(ctx, "with trace")
	logger.InfoContext(context.Background(), "without trace")
	logger.With("component", "loader").InfoContext(ctx, "derived")

	entries := decodeLines(t, buf.String())
	require.Len(t, entries, 3)
	assert.Equal(t, "trace-123", entries[0]["trace_id"])
	assert.Equal(t, "req-9", entries[0]["request_id"])
	assert.NotContains(t, entries[1], "trace_id")
	assert.NotContains(t, entries[1], "request_id")
	assert.Equal(t, "trace-123", entries[2]["trace_id"])
	assert.Equal(t, "loader", entries[2]["component"])
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level     string
		wantCount int
	}{
		{"debug", 4},
		{"info", 3},
		{"warning", 2},
		{"error", 1},
		{"bogus", 3},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(config.LoggingConfig{Level: tt.level, Output: "console"}, &buf)
			require.NoError(t, err)

			logger.Debug("debug")
			logger.Info("info")
			logger.Warn("warn")
			logger.Error("error")

			assert.Len(t, decodeLines(t, buf.String()), tt.wantCount)
		})
	}
}

func TestNewLogger_DebugAddsSource(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "debug", Output: "console"}, &buf)
	require.NoError(t, err)

	logger.Debug("where am i")

	entries := decodeLines(t, buf.String())
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "source")
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Output: "console", Format: "text"}, &buf)
	require.NoError(t, err)

	logger.InfoContext(WithRequestID(context.Background(), "req-1"), "snapshot written", "files", 9)

	line := buf.String()
	assert.Contains(t, line, "msg=\"snapshot written\"")
	assert.Contains(t, line, "files=9")
	assert.Contains(t, line, "request_id=req-1")
}

func TestCorrelation(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, Correlation(ctx))

	id := NewRequestID()
	assert.Len(t, id, 36)
	assert.NotEqual(t, id, NewRequestID())

	ctx = WithRequestID(ctx, id)
	assert.Equal(t, id, RequestID(ctx))
	assert.Equal(t, id, Correlation(ctx))

	ctx = WithTraceID(ctx, "4bf92f3577b34da6a3ce929d0e0e4736")
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", Correlation(ctx))
	assert.Equal(t, id, RequestID(ctx))
}
