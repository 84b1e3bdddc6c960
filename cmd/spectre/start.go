package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jfitzpatrick/spectre/internal/config"
	"github.com/jfitzpatrick/spectre/internal/worker"
)

// startCommand supervises a tag's two daemon processes (capture,
// post-processing) as a Job, per spec.md §4.6's "restart all, not one"
// topology. Each supervisor run gets a UUID for correlating its two
// subprocess logs, grounded on the teacher's jobqueue job-ID convention.
func startCommand(settings *config.Settings) *cobra.Command {
	var tag string
	var runtime time.Duration
	var forceRestart bool
	var maxRestarts int

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Supervise the capture and post-processing workers for a tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePaths(settings)
			if err != nil {
				return err
			}

			runID := uuid.New().String()
			binary, err := os.Executable()
			if err != nil {
				return fmt.Errorf("start: resolve self-exec binary: %w", err)
			}

			now := time.Now().UTC()
			logsDir, err := p.LogsDir(now.Year(), int(now.Month()), now.Day())
			if err != nil {
				return fmt.Errorf("start: resolve logs directory: %w", err)
			}

			captureWorker := worker.New(worker.Target{
				Name:    "capture:" + tag,
				Binary:  binary,
				Args:    []string{"capture", "--tag", tag, "--data-dir", settings.Data.Dir},
				LogPath: filepath.Join(logsDir, fmt.Sprintf("%s_%s_capture.log", runID, tag)),
			})
			postprocessWorker := worker.New(worker.Target{
				Name:    "postprocess:" + tag,
				Binary:  binary,
				Args:    []string{"postprocess", "--tag", tag, "--data-dir", settings.Data.Dir},
				LogPath: filepath.Join(logsDir, fmt.Sprintf("%s_%s_postprocess.log", runID, tag)),
			})

			job := worker.NewJob(captureWorker, postprocessWorker)
			if err := job.Start(); err != nil {
				return fmt.Errorf("start: %w", err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			restarts := maxRestarts
			if restarts <= 0 {
				restarts = settings.Supervisor.MaxRestarts
			}

			fmt.Fprintf(cmd.OutOrStdout(), "supervising tag %q (run %s)\n", tag, runID)
			return job.Monitor(ctx, runtime, forceRestart, restarts)
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "capture tag (required)")
	cmd.Flags().DurationVar(&runtime, "runtime", 24*time.Hour, "total supervised runtime before a clean shutdown")
	cmd.Flags().BoolVar(&forceRestart, "force-restart", true, "restart both workers (rather than exit) when one dies")
	cmd.Flags().IntVar(&maxRestarts, "max-restarts", 0, "restart ceiling before giving up (0 uses the configured default)")
	_ = cmd.MarkFlagRequired("tag")
	return cmd
}
