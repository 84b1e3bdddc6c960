package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jfitzpatrick/spectre/internal/captureconfig"
	"github.com/jfitzpatrick/spectre/internal/config"
	"github.com/jfitzpatrick/spectre/internal/param"
	"github.com/jfitzpatrick/spectre/internal/receiver"
)

// configCommand manages the persisted CaptureConfig documents under
// <configs_dir>/<tag>.json (spec.md §3/§6): "write" validates and persists
// one, "read" prints one back.
func configCommand(settings *config.Settings, reg *receiver.Registry) *cobra.Command {
	root := &cobra.Command{
		Use:   "config",
		Short: "Manage persisted CaptureConfig documents",
	}
	root.AddCommand(configWriteCommand(settings, reg), configReadCommand(settings))
	return root
}

func configWriteCommand(settings *config.Settings, reg *receiver.Registry) *cobra.Command {
	var tag, receiverName, modeName string
	var pairs []string

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Validate parameters and persist a CaptureConfig for a tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePaths(settings)
			if err != nil {
				return err
			}
			parameters, err := param.ParseKeyValue(pairs)
			if err != nil {
				return err
			}
			if err := reg.WriteConfig(p, tag, receiverName, modeName, parameters); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote config for tag %q\n", tag)
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "capture tag (required)")
	cmd.Flags().StringVar(&receiverName, "receiver", "", "receiver name (required)")
	cmd.Flags().StringVar(&modeName, "mode", "", "receiver mode (required)")
	cmd.Flags().StringArrayVar(&pairs, "param", nil, "KEY=VALUE parameter, may be repeated")
	_ = cmd.MarkFlagRequired("tag")
	_ = cmd.MarkFlagRequired("receiver")
	_ = cmd.MarkFlagRequired("mode")
	return cmd
}

func configReadCommand(settings *config.Settings) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Print the persisted CaptureConfig for a tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePaths(settings)
			if err != nil {
				return err
			}
			cfg, err := captureconfig.Read(p, tag)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "receiver=%s mode=%s\n", cfg.ReceiverName, cfg.ReceiverMode)
			for name, value := range cfg.Parameters {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s = %v\n", name, value)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "capture tag (required)")
	_ = cmd.MarkFlagRequired("tag")
	return cmd
}
