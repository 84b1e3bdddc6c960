package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jfitzpatrick/spectre/internal/captureconfig"
	"github.com/jfitzpatrick/spectre/internal/config"
	"github.com/jfitzpatrick/spectre/internal/receiver"
)

// captureCommand is the capture worker's self-exec target: it runs the
// receiver mode's vendor flowgraph to termination, per spec.md §4.6. This is
// one of the two OS-level processes spawned per tag by `spectre start`.
func captureCommand(settings *config.Settings, reg *receiver.Registry) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Run the capture worker for a tag's persisted CaptureConfig",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePaths(settings)
			if err != nil {
				return err
			}
			log, closeLog, err := newComponentLogger(p, "capture", settings)
			if err != nil {
				return err
			}
			defer closeLog()

			cfg, err := captureconfig.Read(p, tag)
			if err != nil {
				return fmt.Errorf("capture: read config for %q: %w", tag, err)
			}
			log.Info("starting capture", "tag", tag, "receiver", cfg.ReceiverName, "mode", cfg.ReceiverMode)

			if err := reg.ActivateFlowgraph(cfg); err != nil {
				log.Error("flowgraph exited with an error", "tag", tag, "error", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "capture tag (required)")
	_ = cmd.MarkFlagRequired("tag")
	return cmd
}
