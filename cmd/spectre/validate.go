package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jfitzpatrick/spectre/internal/param"
	"github.com/jfitzpatrick/spectre/internal/receiver"
)

// validateCommand runs a receiver mode's capture template and validator over
// a set of CLI KEY=VALUE parameters without persisting a CaptureConfig,
// letting a deployment check a parameter set before scheduling a capture.
func validateCommand(reg *receiver.Registry) *cobra.Command {
	var receiverName, modeName string
	var pairs []string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate parameters against a receiver mode's capture template",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := param.ParseKeyValue(pairs)
			if err != nil {
				return err
			}

			_, mode, err := reg.Get(receiverName, modeName)
			if err != nil {
				return err
			}

			validated, err := mode.ValidateParameters(p)
			if err != nil {
				return err
			}

			for _, name := range validated.Names() {
				v, _ := validated.Get(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", v.Name, v.Value)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&receiverName, "receiver", "", "receiver name (required)")
	cmd.Flags().StringVar(&modeName, "mode", "", "receiver mode (required)")
	cmd.Flags().StringArrayVar(&pairs, "param", nil, "KEY=VALUE parameter, may be repeated")
	_ = cmd.MarkFlagRequired("receiver")
	_ = cmd.MarkFlagRequired("mode")
	return cmd
}
