package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [targets...]",
		Short: "Build the given targets",
		Long: "Build the given targets. A path under _build/<context>/ builds in that context only; " +
			"any other path is built in every context.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				return c.app.Watch(cmd.Context(), args, c.setupOptions(cmd))
			}
			return c.app.Build(cmd.Context(), args, c.setupOptions(cmd))
		},
	}
	cmd.Flags().BoolP("watch", "w", false, "Rebuild the targets whenever a source file changes")
	return cmd
}
