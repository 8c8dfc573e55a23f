// Package commands implements the CLI commands for the kiln build tool.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/build"
	"go.trai.ch/kiln/internal/core/domain"
)

// CLI represents the command line interface for kiln.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	args    []string
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, targets []string, opts app.SetupOptions) error
	Watch(ctx context.Context, targets []string, opts app.SetupOptions) error
	ExternalLibDeps(ctx context.Context, packages []string, opts app.SetupOptions) (map[domain.Path]domain.LibDeps, error)
	Bootstrap(ctx context.Context, opts app.BootstrapOptions) error
	Clean(ctx context.Context) error
	SetLogFormat(format string) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "kiln",
		Short:         "A build orchestrator for multi-context projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.IntP("jobs", "j", 0, "Maximum number of concurrent actions (default: number of CPUs)")
	flags.Bool("dev", false, "Build in development mode")
	flags.Bool("debug-dependency-path", false, "Print the dependency path of a failing target")
	flags.BoolP("no-cache", "n", false, "Bypass the action cache and force execution")
	flags.String("log-format", "pretty", "Log format: pretty or json")
	flags.String("trace-file", "", "Write a Chrome trace of the build to this file")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
		args:    os.Args[1:],
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("log-format")
		return c.app.SetLogFormat(format)
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newExternalLibDepsCmd())
	rootCmd.AddCommand(c.newBootstrapCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. They are also recorded in
// the build log.
func (c *CLI) SetArgs(args []string) {
	c.args = args
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// setupOptions reads the persistent flags shared by every build command.
func (c *CLI) setupOptions(cmd *cobra.Command) app.SetupOptions {
	jobs, _ := cmd.Flags().GetInt("jobs")
	dev, _ := cmd.Flags().GetBool("dev")
	debug, _ := cmd.Flags().GetBool("debug-dependency-path")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	traceFile, _ := cmd.Flags().GetString("trace-file")

	return app.SetupOptions{
		Jobs:      jobs,
		Dev:       dev,
		Debug:     debug,
		NoCache:   noCache,
		TraceFile: traceFile,
		Args:      c.args,
	}
}
