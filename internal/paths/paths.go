// Package paths centralises the on-disk layout described by the
// SPECTRE_DATA_DIR_PATH environment variable:
//
//	<root>/batches/YYYY/MM/DD/<start_time>_<tag>.<ext>
//	<root>/logs/YYYY/MM/DD/<start_time>_<pid>_<user|worker>.log
//	<root>/configs/<tag>.json
//
// A Paths value is constructed once at process start-up and threaded through
// every constructor that needs to locate files on disk; there is no package
// level global root.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths resolves the three data roots rooted under a single data directory.
type Paths struct {
	dataDir    string
	batchesDir string
	logsDir    string
	configsDir string
}

// New derives a Paths from a data directory root, creating the batches, logs
// and configs subdirectories if they do not already exist. Each subdirectory
// may be overridden independently via the corresponding override argument
// (pass "" to accept the default under dataDir), mirroring the
// SPECTRE_BATCHES_DIR_PATH / SPECTRE_LOGS_DIR_PATH / SPECTRE_CONFIGS_DIR_PATH
// environment overrides.
func New(dataDir, batchesOverride, logsOverride, configsOverride string) (*Paths, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("paths: data directory must not be empty")
	}

	p := &Paths{
		dataDir:    filepath.Clean(dataDir),
		batchesDir: firstNonEmpty(batchesOverride, filepath.Join(dataDir, "batches")),
		logsDir:    firstNonEmpty(logsOverride, filepath.Join(dataDir, "logs")),
		configsDir: firstNonEmpty(configsOverride, filepath.Join(dataDir, "configs")),
	}

	for _, dir := range []string{p.batchesDir, p.logsDir, p.configsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("paths: create %s: %w", dir, err)
		}
	}
	return p, nil
}

// NewFromEnv builds a Paths from SPECTRE_DATA_DIR_PATH and its three optional
// per-root overrides.
func NewFromEnv() (*Paths, error) {
	dataDir := os.Getenv("SPECTRE_DATA_DIR_PATH")
	if dataDir == "" {
		return nil, fmt.Errorf("paths: SPECTRE_DATA_DIR_PATH is not set")
	}
	return New(
		dataDir,
		os.Getenv("SPECTRE_BATCHES_DIR_PATH"),
		os.Getenv("SPECTRE_LOGS_DIR_PATH"),
		os.Getenv("SPECTRE_CONFIGS_DIR_PATH"),
	)
}

// DataDir returns the root data directory.
func (p *Paths) DataDir() string { return p.dataDir }

// ConfigsDir returns the directory holding persisted CaptureConfig documents.
func (p *Paths) ConfigsDir() string { return p.configsDir }

// ConfigFilePath returns the path at which the CaptureConfig for tag is stored.
func (p *Paths) ConfigFilePath(tag string) string {
	return filepath.Join(p.configsDir, tag+".json")
}

// BatchesDir returns the batches root, optionally narrowed to a
// year[/month[/day]] partition. A day requires a month and a year; a month
// requires a year, matching the date-filter invariant of Batches (spec.md §4.4).
func (p *Paths) BatchesDir(year, month, day int) (string, error) {
	return DateDir(p.batchesDir, year, month, day)
}

// LogsDir returns the logs root, optionally narrowed to a year[/month[/day]]
// partition, following the same date-filter invariant as BatchesDir.
func (p *Paths) LogsDir(year, month, day int) (string, error) {
	return DateDir(p.logsDir, year, month, day)
}

// DateDir joins base with a YYYY[/MM[/DD]] partition. A zero value for a
// component omits it and every component that follows; day without month+year,
// or month without year, is rejected.
//
// Supplements original_source's paths.py `_get_date_based_dir_path`, which
// applies this same rule to both the chunks (batches) root and the logs root;
// spec.md §4.4 only states the invariant for Batches.
func DateDir(base string, year, month, day int) (string, error) {
	if day != 0 && (year == 0 || month == 0) {
		return "", fmt.Errorf("paths: a day requires both a month and a year")
	}
	if month != 0 && year == 0 {
		return "", fmt.Errorf("paths: a month requires a year")
	}

	components := []string{base}
	if year != 0 {
		components = append(components, fmt.Sprintf("%04d", year))
	}
	if month != 0 {
		components = append(components, fmt.Sprintf("%02d", month))
	}
	if day != 0 {
		components = append(components, fmt.Sprintf("%02d", day))
	}
	return filepath.Join(components...), nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
