package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains the directories the application reads from and writes to.
type Paths struct {
	WorkingDir    string
	ExecutableDir string
	LogsDir       string
}

// GetPaths resolves the working and executable directories.
func GetPaths() (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	exeDir := filepath.Dir(exe)

	return &Paths{
		WorkingDir:    wd,
		ExecutableDir: exeDir,
		LogsDir:       filepath.Join(wd, "logs"),
	}, nil
}

// ExpandPath expands a leading ~ and any $VAR references in p.
func ExpandPath(p string) string {
	p = os.ExpandEnv(strings.TrimSpace(p))
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// ResolveCandidates expands every candidate and, for relative ones, appends
// the executable-relative variant after the working-directory one. Order is
// preserved and duplicates are dropped.
func (p *Paths) ResolveCandidates(candidates []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(c string) {
		if seen[c] {
			return
		}
		seen[c] = true
		out = append(out, c)
	}

	for _, c := range candidates {
		c = ExpandPath(c)
		if c == "" {
			continue
		}
		add(c)
		if !filepath.IsAbs(c) && p.ExecutableDir != "" && p.ExecutableDir != p.WorkingDir {
			add(filepath.Join(p.ExecutableDir, c))
		}
	}
	return out
}

// LogPathResolution logs resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Resolved application paths",
		slog.String("working_dir", p.WorkingDir),
		slog.String("executable_dir", p.ExecutableDir),
		slog.String("logs_dir", p.LogsDir))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
