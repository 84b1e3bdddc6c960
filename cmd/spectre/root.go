package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jfitzpatrick/spectre/internal/config"
	"github.com/jfitzpatrick/spectre/internal/logger"
	"github.com/jfitzpatrick/spectre/internal/paths"
	"github.com/jfitzpatrick/spectre/internal/receiver"
)

func rootCommand(settings *config.Settings, reg *receiver.Registry) *cobra.Command {
	root := &cobra.Command{
		Use:   "spectre",
		Short: "SDR I/Q capture, STFFT, and spectrogram persistence pipeline",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.PersistentFlags().StringVar(&settings.Data.Dir, "data-dir", settings.Data.Dir, "root data directory (overrides SPECTRE_DATA_DIR_PATH)")

	root.AddCommand(
		captureCommand(settings, reg),
		postprocessCommand(settings, reg),
		startCommand(settings),
		validateCommand(reg),
		configCommand(settings, reg),
	)
	return root
}

func resolvePaths(settings *config.Settings) (*paths.Paths, error) {
	if settings.Data.Dir == "" {
		return nil, fmt.Errorf("spectre: data directory not set (use --data-dir or SPECTRE_DATA_DIR_PATH)")
	}
	return paths.New(settings.Data.Dir, settings.Data.Batches, settings.Data.Logs, settings.Data.Configs)
}

func newComponentLogger(p *paths.Paths, component string, settings *config.Settings) (*slog.Logger, func() error, error) {
	return logger.New(p, component, logger.Config{Level: settings.SlogLevel(), JSON: settings.Log.JSON})
}
