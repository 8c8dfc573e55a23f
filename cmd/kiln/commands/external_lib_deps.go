package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/core/domain"
)

func (c *CLI) newExternalLibDepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "external-lib-deps packages...",
		Short: "Print the external libraries required to install packages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := c.app.ExternalLibDeps(cmd.Context(), args, c.setupOptions(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			targets := make([]domain.Path, 0, len(deps))
			for t := range deps {
				targets = append(targets, t)
			}
			slices.SortFunc(targets, func(a, b domain.Path) int {
				return strings.Compare(a.String(), b.String())
			})

			for _, t := range targets {
				_, _ = fmt.Fprintln(out, t)
				libs := deps[t]
				for _, name := range libs.Names() {
					if libs[name] == domain.Optional {
						_, _ = fmt.Fprintf(out, "  %s (optional)\n", name)
						continue
					}
					_, _ = fmt.Fprintf(out, "  %s\n", name)
				}
			}
			return nil
		},
	}
}
