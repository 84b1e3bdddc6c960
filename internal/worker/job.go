package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/jfitzpatrick/spectre/internal/errs"
)

// pollInterval is how often Monitor checks worker liveness, per spec.md §5
// ("the supervisor polls at ≈ 1s").
const pollInterval = time.Second

// Job is an ordered set of Workers supervised as a unit: spec.md §4.6's
// "restart all, not one" rule follows from the workers cooperating only
// through the filesystem, so a partial restart would leave survivors
// referencing missing batches or a stale FFT plan.
type Job struct {
	workers []*Worker
}

// NewJob constructs a Job over the given workers, in start order.
func NewJob(workers ...*Worker) *Job {
	return &Job{workers: workers}
}

// Start starts every worker in order.
func (j *Job) Start() error {
	for _, w := range j.workers {
		if err := w.Start(); err != nil {
			return fmt.Errorf("job: start %s: %w", w.Name(), err)
		}
	}
	return nil
}

// Kill terminates every worker that is still alive.
func (j *Job) Kill() {
	for _, w := range j.workers {
		if w.IsAlive() {
			_ = w.Kill()
		}
	}
}

// Monitor polls the job's workers until ctx is done or totalRuntime elapses.
// If any worker dies: with forceRestart false, the remaining workers are
// killed and WorkerDied is returned; with forceRestart true, all workers are
// restarted and a restart counter is incremented, returning
// RestartLimitExceeded once the counter exceeds maxRestarts.
func (j *Job) Monitor(ctx context.Context, totalRuntime time.Duration, forceRestart bool, maxRestarts int) error {
	deadline := time.Now().Add(totalRuntime)
	restarts := 0

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.Kill()
			return nil
		case <-ticker.C:
			if time.Now().After(deadline) {
				j.Kill()
				return nil
			}

			dead := j.firstDead()
			if dead == "" {
				continue
			}

			if !forceRestart {
				j.Kill()
				return fmt.Errorf("%w: %s", errs.ErrWorkerDied, dead)
			}

			restarts++
			if restarts > maxRestarts {
				j.Kill()
				return fmt.Errorf("%w: after %d restarts", errs.ErrRestartLimitExceeded, restarts-1)
			}
			if err := j.restartAll(ctx); err != nil {
				j.Kill()
				return fmt.Errorf("%w: %s", errs.ErrWorkerDied, dead)
			}
		}
	}
}

func (j *Job) firstDead() string {
	for _, w := range j.workers {
		if !w.IsAlive() {
			return w.Name()
		}
	}
	return ""
}

func (j *Job) restartAll(ctx context.Context) error {
	for _, w := range j.workers {
		if err := w.Restart(ctx); err != nil {
			return err
		}
	}
	return nil
}
