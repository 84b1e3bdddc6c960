package postprocess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// eventQueueDepth bounds the channel between the fsnotify watcher goroutine
// and the single event-handler consumer, per spec.md §9's "filesystem-watch
// callbacks become a bounded channel from an OS-watcher task to a single
// consumer task" redesign note.
const eventQueueDepth = 64

// Watch mounts an fsnotify watcher on dir and drives h.OnCreated for every
// Create event, in arrival order, until ctx is cancelled. Only one goroutine
// ever calls h.OnCreated, preserving the handler's single-threaded state
// machine invariant (spec.md §4.5).
func Watch(ctx context.Context, dir string, h *Handler) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("postprocess: create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("postprocess: watch %s: %w", dir, err)
	}

	queue := make(chan fsnotify.Event, eventQueueDepth)
	go forward(ctx, w, queue, h.log)

	for {
		select {
		case <-ctx.Done():
			if err := h.Flush(); err != nil {
				h.log.Error("flush on shutdown failed", "error", err)
			}
			return nil
		case ev, ok := <-queue:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) {
				continue
			}
			if err := h.OnCreated(dir, baseName(ev.Name)); err != nil {
				h.log.Error("processing batch file failed", "file", ev.Name, "error", err)
				if flushErr := h.Flush(); flushErr != nil {
					h.log.Error("flush after processing failure failed", "error", flushErr)
				}
				return fmt.Errorf("postprocess: process %s: %w", ev.Name, err)
			}
		}
	}
}

// forward relays fsnotify events (and dropped errors) onto queue, decoupling
// the watcher's OS callback from the handler's processing latency.
func forward(ctx context.Context, w *fsnotify.Watcher, queue chan<- fsnotify.Event, log *slog.Logger) {
	defer close(queue)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			select {
			case queue <- ev:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			if log != nil {
				log.Error("filesystem watch error", "error", err)
			}
		}
	}
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}
