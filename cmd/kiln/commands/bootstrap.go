package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/zerr"
)

func (c *CLI) newBootstrapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap [-j JOBS] [--dev]",
		Short: "Build the install file of the kiln package in the default context",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return zerr.With(zerr.New("usage: "+cmd.UseLine()), "argument", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := c.setupOptions(cmd)
			pkg, _ := cmd.Flags().GetString("package")
			return c.app.Bootstrap(cmd.Context(), app.BootstrapOptions{
				Jobs:      opts.Jobs,
				Dev:       opts.Dev,
				Debug:     opts.Debug,
				NoCache:   opts.NoCache,
				TraceFile: opts.TraceFile,
				Package:   pkg,
				Args:      opts.Args,
			})
		},
	}
	cmd.Flags().String("package", app.DefaultBootstrapPackage, "Package whose install file is built")
	return cmd
}
