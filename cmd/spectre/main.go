// Command spectre is SPECTRE's single binary: a capture tag's two daemon
// processes (capture, post-processing) and the supervisor that runs both are
// all the same executable, self-exec'd with different subcommands, mirroring
// the teacher's single-binary-many-subcommands cmd/ layout.
package main

import (
	"fmt"
	"os"

	"github.com/jfitzpatrick/spectre/internal/config"
	"github.com/jfitzpatrick/spectre/internal/receiver"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "spectre: loading configuration: %v\n", err)
		os.Exit(1)
	}

	reg := receiver.NewRegistry()
	registerReceivers(reg)

	if err := rootCommand(settings, reg).Execute(); err != nil {
		os.Exit(1)
	}
}

// registerReceivers is the vendor integration point: production deployments
// register their SDR's (name, mode) → (template, validator, flowgraph,
// post-processor) tuples here. The vendor flowgraph and receiver specifics
// are external collaborators (spec.md §1 Non-goals) — none are registered by
// default, so capture/postprocess fail with ErrReceiverNotFound until a
// deployment supplies its own registration call.
func registerReceivers(reg *receiver.Registry) {
	_ = reg
}
