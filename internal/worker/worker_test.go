package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sleepTarget(t *testing.T, name string, seconds int) Target {
	t.Helper()
	return Target{
		Name:    name,
		Binary:  "/bin/sh",
		Args:    []string{"-c", "sleep " + itoa(seconds)},
		LogPath: filepath.Join(t.TempDir(), name+".log"),
	}
}

func crashTarget(t *testing.T, name string) Target {
	t.Helper()
	return Target{
		Name:    name,
		Binary:  "/bin/sh",
		Args:    []string{"-c", "exit 1"},
		LogPath: filepath.Join(t.TempDir(), name+".log"),
	}
}

func itoa(n int) string {
	digits := "0123456789"
	if n == 0 {
		return "0"
	}
	var out []byte
	for n > 0 {
		out = append([]byte{digits[n%10]}, out...)
		n /= 10
	}
	return string(out)
}

func TestWorkerStartAndIsAlive(t *testing.T) {
	w := New(sleepTarget(t, "w1", 5))
	require.NoError(t, w.Start())
	assert.True(t, w.IsAlive())
	require.NoError(t, w.Kill())
}

func TestWorkerDetectsCrash(t *testing.T) {
	w := New(crashTarget(t, "w2"))
	require.NoError(t, w.Start())
	require.Eventually(t, func() bool { return !w.IsAlive() }, 2*time.Second, 10*time.Millisecond)
}

func TestWorkerKillStopsProcess(t *testing.T) {
	w := New(sleepTarget(t, "w3", 30))
	require.NoError(t, w.Start())
	require.NoError(t, w.Kill())
	require.Eventually(t, func() bool { return !w.IsAlive() }, 2*time.Second, 10*time.Millisecond)
}

func TestWorkerRestartSpawnsFreshProcess(t *testing.T) {
	w := New(crashTarget(t, "w4"))
	require.NoError(t, w.Start())
	require.Eventually(t, func() bool { return !w.IsAlive() }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Restart(ctx))
	require.Eventually(t, func() bool { return !w.IsAlive() }, 2*time.Second, 10*time.Millisecond)
}
