package options

import "github.com/spf13/cobra"

// RunOptions captures flags for the run command.
type RunOptions struct {
	FlipInterval string
	Headless     bool
	Verbose      bool
}

// AddRunArgs wires run-related flags on the provided command.
func AddRunArgs(cmd *cobra.Command, o *RunOptions) {
	cmd.Flags().StringVar(&o.FlipInterval, "flip-interval", "",
		"Override the auto page-flip interval (for example \"15s\" or \"2m\").")
	cmd.Flags().BoolVar(&o.Headless, "headless", false,
		"Run the shell without the simulated content view.")
	cmd.Flags().BoolVarP(&o.Verbose, "verbose", "v", false,
		"Verbose logging.")
}
