package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"typedid/internal/prof"
)

// setupProfiling starts the profilers requested by the persistent
// --cpu-profile, --mem-profile and --runtime-trace flags.
func setupProfiling(cmd *cobra.Command) (*prof.Session, error) {
	root := cmd.Root()

	cpuProfile, err := root.PersistentFlags().GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := root.PersistentFlags().GetString("mem-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	tracePath, err := root.PersistentFlags().GetString("runtime-trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	opts := prof.Options{CPU: cpuProfile, Mem: memProfile, Trace: tracePath}
	if !opts.Enabled() {
		return nil, nil
	}
	return prof.Start(opts)
}
