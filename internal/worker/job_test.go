package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jfitzpatrick/spectre/internal/errs"
)

func TestMonitorReturnsWorkerDiedWithoutForceRestart(t *testing.T) {
	w1 := New(sleepTarget(t, "j1", 30))
	w2 := New(crashTarget(t, "j2"))
	job := NewJob(w1, w2)
	require.NoError(t, job.Start())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := job.Monitor(ctx, 10*time.Second, false, 3)
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrWorkerDied))
}

func TestMonitorExceedsRestartLimit(t *testing.T) {
	w1 := New(sleepTarget(t, "j3", 30))
	w2 := New(crashTarget(t, "j4"))
	job := NewJob(w1, w2)
	require.NoError(t, job.Start())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	err := job.Monitor(ctx, 20*time.Second, true, 1)
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrRestartLimitExceeded))

	for _, w := range job.workers {
		require.False(t, w.IsAlive())
	}
}

func TestMonitorReturnsCleanlyOnElapsedRuntime(t *testing.T) {
	w1 := New(sleepTarget(t, "j5", 30))
	job := NewJob(w1)
	require.NoError(t, job.Start())

	err := job.Monitor(context.Background(), 1200*time.Millisecond, false, 3)
	require.NoError(t, err)
}
