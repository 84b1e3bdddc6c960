package postprocess

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jfitzpatrick/spectre/internal/spectrogram"
)

func TestWatchDrivesHandlerOnFileCreation(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var saved []*spectrogram.Spectrogram
	cfg := testConfig(nil)
	cfg.Save = func(s *spectrogram.Spectrogram) error {
		mu.Lock()
		defer mu.Unlock()
		saved = append(saved, s)
		return nil
	}
	h := New(cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, dir, h) }()

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	writeFC32Batch(t, dir, t0, "spectre-test", testSamples(8))

	require.Eventually(t, func() bool {
		return h.queuedFile != nil
	}, 2*time.Second, 10*time.Millisecond, "watcher should have queued the first batch file")

	t1 := t0.Add(2 * time.Second)
	writeFC32Batch(t, dir, t1, "spectre-test", testSamples(8))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return h.cached != nil
	}, 2*time.Second, 10*time.Millisecond, "second create event should process the deferred first file")

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, saved, 1, "shutdown should flush the remaining cache")
}
