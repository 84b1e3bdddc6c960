// Package logger builds the per-process structured logger of SPEC_FULL.md's
// ambient stack: one slog.Logger per worker process, writing to both stderr
// and a date-partitioned log file under <root>/logs/YYYY/MM/DD, tagged with
// a "component" field. Trimmed down from the teacher's CentralLogger (which
// layered multi-module routing, Sentry telemetry, and log rotation via zap)
// to the single piece SPECTRE's daemon topology needs.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jfitzpatrick/spectre/internal/paths"
)

// Config controls the level and destination of a process logger.
type Config struct {
	Level slog.Level
	// JSON selects JSON output; text output is used otherwise, matching the
	// teacher's development-vs-production handler split.
	JSON bool
}

// New builds a slog.Logger for component (e.g. "capture", "postprocess",
// "supervisor"), writing to stderr and a date-partitioned file under p's logs
// root. The returned close func must be called on shutdown to release the
// file handle.
func New(p *paths.Paths, component string, cfg Config) (*slog.Logger, func() error, error) {
	now := time.Now().UTC()
	dir, err := p.LogsDir(now.Year(), int(now.Month()), now.Day())
	if err != nil {
		return nil, nil, fmt.Errorf("logger: resolve logs directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("logger: create logs directory: %w", err)
	}

	name := fmt.Sprintf("%s_%d_%s.log", now.Format("2006-01-02T15:04:05"), os.Getpid(), component)
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: open log file: %w", err)
	}

	handler := newHandler(io.MultiWriter(os.Stderr, f), cfg)
	log := slog.New(handler).With("component", component)
	return log, f.Close, nil
}

func newHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.JSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
