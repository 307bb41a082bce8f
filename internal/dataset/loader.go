package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Severity of a loader diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is a user-facing message produced while resolving the dataset.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path,omitempty"`
	Message  string   `json:"message"`
}

// MissingDatasetMessage is shown when every candidate failed.
const MissingDatasetMessage = "Could not find the dataset. Please ensure 'sp500esg.csv' is available."

// LoadResult is the memoized outcome of a load. Table is nil when no
// candidate could be read.
type LoadResult struct {
	Table       *Table
	Source      string
	Diagnostics []Diagnostic
	LoadedAt    time.Time
}

// LoadRecorder receives load outcomes, typically for metrics.
type LoadRecorder interface {
	RecordDatasetLoad(ctx context.Context, source string, rows int, ok bool)
}

// Loader resolves the dataset from an ordered list of candidate paths and
// memoizes the result for its lifetime.
type Loader struct {
	candidates []string
	logger     *slog.Logger
	recorder   LoadRecorder
	readFile   func(string) (*Table, error)

	group  singleflight.Group
	mu     sync.RWMutex
	result *LoadResult
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithRecorder reports each real (non-memoized) load to r.
func WithRecorder(r LoadRecorder) LoaderOption {
	return func(l *Loader) { l.recorder = r }
}

// WithReader replaces the file parser; used by tests.
func WithReader(read func(string) (*Table, error)) LoaderOption {
	return func(l *Loader) { l.readFile = read }
}

// NewLoader creates a loader over the given candidates, tried in order.
func NewLoader(candidates []string, logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		candidates: append([]string(nil), candidates...),
		logger:     logger.With(slog.String("component", "dataset_loader")),
		readFile:   ReadFile,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Candidates returns the candidate paths in resolution order.
func (l *Loader) Candidates() []string {
	return append([]string(nil), l.candidates...)
}

// Load returns the memoized result, reading from disk only on the first call
// (or the first call after Reset). Concurrent first calls share one read.
// The error is ErrNoDataset when no candidate produced a table; the result
// is still returned so callers can show its diagnostics.
func (l *Loader) Load(ctx context.Context) (*LoadResult, error) {
	if res := l.cached(); res != nil {
		return res, res.err()
	}

	v, _, _ := l.group.Do("load", func() (interface{}, error) {
		if res := l.cached(); res != nil {
			return res, nil
		}
		res := l.resolve(ctx)
		l.mu.Lock()
		l.result = res
		l.mu.Unlock()
		return res, nil
	})
	res := v.(*LoadResult)
	return res, res.err()
}

// Reset drops the memoized result so the next Load reads from disk again.
func (l *Loader) Reset() {
	l.mu.Lock()
	l.result = nil
	l.mu.Unlock()
	l.logger.Info("dataset cache cleared")
}

func (l *Loader) cached() *LoadResult {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.result
}

func (r *LoadResult) err() error {
	if r.Table == nil {
		return ErrNoDataset
	}
	return nil
}

// resolve tries every candidate in order and stops at the first table.
func (l *Loader) resolve(ctx context.Context) *LoadResult {
	res := &LoadResult{LoadedAt: time.Now()}

	for _, path := range l.candidates {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				l.logger.DebugContext(ctx, "dataset candidate not found", slog.String("path", path))
				res.Diagnostics = append(res.Diagnostics, Diagnostic{
					Severity: SeverityInfo,
					Path:     path,
					Message:  fmt.Sprintf("No file at %s", path),
				})
				continue
			}
		}

		table, err := l.readFile(path)
		if err != nil {
			l.logger.WarnContext(ctx, "dataset candidate unreadable",
				slog.String("path", path),
				slog.String("error", err.Error()))
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityError,
				Path:     path,
				Message:  fmt.Sprintf("Error reading file at %s: %v", path, err),
			})
			continue
		}

		res.Table = table
		res.Source = path
		l.logger.InfoContext(ctx, "dataset loaded",
			slog.String("path", path),
			slog.Int("rows", table.Len()),
			slog.Int("columns", len(table.Columns())))
		if l.recorder != nil {
			l.recorder.RecordDatasetLoad(ctx, path, table.Len(), true)
		}
		return res
	}

	res.Diagnostics = append(res.Diagnostics, Diagnostic{
		Severity: SeverityError,
		Message:  MissingDatasetMessage,
	})
	l.logger.ErrorContext(ctx, "no dataset candidate could be loaded",
		slog.Int("candidates", len(l.candidates)))
	if l.recorder != nil {
		l.recorder.RecordDatasetLoad(ctx, "", 0, false)
	}
	return res
}
