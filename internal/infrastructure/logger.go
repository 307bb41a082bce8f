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

	"esgdash/internal/config"
)

var (
	loggerMu   sync.Mutex
	logger     *slog.Logger
	logFile    *os.File
	loggerInit bool
)

// InitializeLogger builds the process logger from cfg, writing console
// output to stdout, and installs it as the slog default. Later calls return
// the logger built by the first one.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if loggerInit {
		return logger, nil
	}
	l, err := newLogger(cfg, os.Stdout)
	if err != nil {
		return nil, err
	}
	logger, loggerInit = l, true
	slog.SetDefault(l)
	return l, nil
}

// GetLogger returns the process logger, or slog.Default before InitializeLogger.
func GetLogger() *slog.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// NewLogger builds a logger without installing it. console receives output
// when cfg.Output is "console" or "both".
func NewLogger(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, error) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	return newLogger(cfg, console)
}

func newLogger(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, error) {
	out := console
	if mode := strings.ToLower(cfg.Output); mode == "file" || mode == "both" {
		f, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		if logFile != nil {
			logFile.Close()
		}
		logFile = f
		out = f
		if mode == "both" {
			out = io.MultiWriter(console, f)
		}
	}

	level := parseLogLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level, AddSource: level == slog.LevelDebug}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(out, opts)
	} else {
		h = slog.NewJSONHandler(out, opts)
	}
	return slog.New(correlationHandler{h}), nil
}

// correlationHandler tags records with the request and trace IDs found in
// the record's context.
type correlationHandler struct {
	slog.Handler
}

func (h correlationHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RequestID(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	if id := GetTraceID(ctx); id != "" {
		r.AddAttrs(slog.String("trace_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h correlationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return correlationHandler{h.Handler.WithAttrs(attrs)}
}

func (h correlationHandler) WithGroup(name string) slog.Handler {
	return correlationHandler{h.Handler.WithGroup(name)}
}

func parseLogLevel(level string) slog.Level {
	var l slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "warning":
		return slog.LevelWarn
	case "":
		return slog.LevelInfo
	}
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// CloseLogFile closes the log file opened for "file" or "both" output.
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

// ResetLoggerForTesting forgets the process logger so the next
// InitializeLogger call builds a new one.
func ResetLoggerForTesting() {
	CloseLogFile()
	loggerMu.Lock()
	logger, loggerInit = nil, false
	loggerMu.Unlock()
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
