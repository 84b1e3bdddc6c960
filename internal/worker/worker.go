// Package worker implements the daemon-subprocess model of spec.md §4.6: a
// Worker wraps one OS subprocess running a target function (re-invoked via
// the spectre binary's own self-exec subcommand) with an isolated log file,
// and a Job supervises an ordered set of Workers with a restart policy.
package worker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"
)

// restartDelay is the pause between killing and re-spawning a worker's
// process, matching spec.md §4.6 ("kill, sleep ≈ 1s, re-spawn").
const restartDelay = time.Second

// Target describes one subprocess to run: the self-exec binary, the
// subcommand/arguments it should be invoked with, and where its isolated
// log output is written.
type Target struct {
	Name    string
	Binary  string
	Args    []string
	LogPath string
}

// Worker wraps one daemon subprocess running a single Target. Processes
// cannot be restarted in place — Restart kills the current one and spawns a
// fresh *exec.Cmd with the same Target.
type Worker struct {
	target Target

	mu    sync.Mutex
	cmd   *exec.Cmd
	log   *os.File
	alive bool
}

// New constructs a Worker for target. The subprocess is not started yet.
func New(target Target) *Worker {
	return &Worker{target: target}
}

// Name returns the worker's target name, for logging and error reporting.
func (w *Worker) Name() string { return w.target.Name }

// Start spawns the subprocess.
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.startLocked()
}

func (w *Worker) startLocked() error {
	logFile, err := os.OpenFile(w.target.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("worker %s: open log %s: %w", w.target.Name, w.target.LogPath, err)
	}

	cmd := exec.Command(w.target.Binary, w.target.Args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return fmt.Errorf("worker %s: start: %w", w.target.Name, err)
	}

	w.cmd = cmd
	w.log = logFile
	w.alive = true

	go w.awaitExit(cmd, logFile)
	return nil
}

// awaitExit reaps the subprocess and flips alive false once it exits,
// avoiding a zombie and giving IsAlive an O(1) read instead of a signal probe.
func (w *Worker) awaitExit(cmd *exec.Cmd, logFile *os.File) {
	_ = cmd.Wait()
	w.mu.Lock()
	if w.cmd == cmd {
		w.alive = false
	}
	w.mu.Unlock()
	logFile.Close()
}

// IsAlive reports whether the subprocess is still running.
func (w *Worker) IsAlive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.alive
}

// Kill terminates the subprocess if it is still alive.
func (w *Worker) Kill() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.killLocked()
}

func (w *Worker) killLocked() error {
	if w.cmd == nil || !w.alive {
		return nil
	}
	if err := w.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("worker %s: kill: %w", w.target.Name, err)
	}
	w.alive = false
	return nil
}

// Restart kills the current subprocess, waits restartDelay, and spawns a
// fresh one with the same Target.
func (w *Worker) Restart(ctx context.Context) error {
	w.mu.Lock()
	if err := w.killLocked(); err != nil {
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(restartDelay):
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.startLocked()
}
