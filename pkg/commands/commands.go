// Package commands defines the readershell CLI.
package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "readershell",
		Short: base.Wrap80("Desktop reader shell: wraps a reading site and keeps its settings in sync."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addRun(topLevel)
	addStatus(topLevel)
	addSet(topLevel)
	addVersion(topLevel)
}
