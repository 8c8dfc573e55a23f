package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the build directory and the action cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Clean(cmd.Context())
		},
	}
}
