package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jfitzpatrick/spectre/internal/captureconfig"
	"github.com/jfitzpatrick/spectre/internal/config"
	"github.com/jfitzpatrick/spectre/internal/receiver"
)

// postprocessCommand is the post-processing worker's self-exec target: it
// mounts the receiver mode's filesystem observer over the batches root, per
// spec.md §4.5/§4.6. This is the second of the two OS-level processes
// spawned per tag by `spectre start`.
func postprocessCommand(settings *config.Settings, reg *receiver.Registry) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "postprocess",
		Short: "Run the post-processing worker for a tag's persisted CaptureConfig",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePaths(settings)
			if err != nil {
				return err
			}
			log, closeLog, err := newComponentLogger(p, "postprocess", settings)
			if err != nil {
				return err
			}
			defer closeLog()

			cfg, err := captureconfig.Read(p, tag)
			if err != nil {
				return fmt.Errorf("postprocess: read config for %q: %w", tag, err)
			}
			log.Info("starting post-processing", "tag", tag, "receiver", cfg.ReceiverName, "mode", cfg.ReceiverMode)

			if err := reg.ActivatePostProcessing(p, cfg); err != nil {
				log.Error("post-processing exited with an error", "tag", tag, "error", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "capture tag (required)")
	_ = cmd.MarkFlagRequired("tag")
	return cmd
}
