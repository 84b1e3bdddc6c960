package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfitzpatrick/spectre/internal/paths"
)

func TestNewWritesToDatePartitionedFile(t *testing.T) {
	dir := t.TempDir()
	p, err := paths.New(dir, "", "", "")
	require.NoError(t, err)

	log, closeFn, err := New(p, "capture", Config{Level: slog.LevelInfo})
	require.NoError(t, err)
	defer closeFn()

	log.Info("hello", "tag", "spectre-test")

	logsDir, err := p.LogsDir(0, 0, 0)
	require.NoError(t, err)
	var found []string
	require.NoError(t, filepath.Walk(logsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			found = append(found, path)
		}
		return nil
	}))
	require.Len(t, found, 1)

	contents, err := os.ReadFile(found[0])
	require.NoError(t, err)
	assert.Contains(t, string(contents), "hello")
	assert.Contains(t, string(contents), "component=capture")
}
