package testutil

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCapture(t *testing.T) {
	logger, logs := NewTestLogger(t)

	logger.Debug("candidate skipped", slog.String("path", "a.csv"))
	logger.Info("dataset loaded", slog.Int("rows", 7))
	logger.Error("render failed")

	assert.Equal(t, 3, logs.Count())
	assert.Len(t, logs.AtLevel(slog.LevelInfo), 1)
	assert.True(t, logs.ContainsMessage("loaded"))
	assert.False(t, logs.ContainsMessage("exported"))
	assert.True(t, logs.ContainsAttr("rows", int64(7)))
	assert.False(t, logs.ContainsAttr("rows", 7), "slog stores ints as int64")

	logs.Reset()
	assert.Zero(t, logs.Count())
}

func TestLogCaptureDerivedLoggers(t *testing.T) {
	logger, logs := NewTestLogger(t)

	loader := logger.With(slog.String("component", "loader"))
	loader.Warn("candidate missing")
	logger.WithGroup("http").With(slog.String("method", "GET")).Info("served", slog.Int("status", 200))

	AssertLogAttr(t, logs, "component", "loader")
	AssertLogAttr(t, logs, "http.method", "GET")
	AssertLogAttr(t, logs, "http.status", int64(200))
	AssertLogContains(t, logs, slog.LevelWarn, "missing")

	entries := logs.Entries()
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[1].Attrs, "component", "siblings do not share attrs")
}

func TestLogCaptureConcurrent(t *testing.T) {
	logger, logs := NewTestLogger(t)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("view computed", slog.Int("worker", i))
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, logs.Count())
}

func TestWriteFixture(t *testing.T) {
	path := WriteFixture(t, "nested/sp500esg.csv", SampleCSV)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, SampleRows+1)
}
