// Package cli implements the barcut command-line interface.
//
// The CLI is built using cobra. Every command accepts --verbose (-v) for
// debug-level logging and --home to relocate the directory holding the
// config file, the stock inventory and the optimization history. Loggers
// are passed through context.Context.
//
// # Commands
//
//   - optimize: run the cutting methods on a request and print the results table
//   - compare: run the request under what-if settings
//   - methods: list the available methods
//   - inventory: manage stock presets
//   - history: show or clear the optimization log
//   - config: show or initialize the config file
//   - backup: export or import all application data
package cli

import (
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/BarCut/internal/project"
)

const appName = "barcut"

// Version is reported by --version. It is set at build time via ldflags.
var Version = "dev"

// CLI holds shared state for all commands.
type CLI struct {
	out     io.Writer
	errOut  io.Writer
	home    string
	verbose bool
}

// New creates a CLI that prints results to out and logs to errOut.
func New(out, errOut io.Writer) *CLI {
	return &CLI{out: out, errOut: errOut}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "BarCut plans how to cut bars and profiles from stock",
		Long:          `BarCut is a one-dimensional cutting stock optimizer. It runs several cutting methods on the same request, compares their waste and reports the best layout.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if c.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(c.errOut, level)))
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.home, "home", project.DefaultConfigDir(), "directory for config, inventory and history")

	root.AddCommand(c.optimizeCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.methodsCommand())
	root.AddCommand(c.inventoryCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.backupCommand())

	return root
}

func (c *CLI) configPath() string {
	return filepath.Join(c.home, "config.toml")
}

func (c *CLI) inventoryPath() string {
	return filepath.Join(c.home, "inventory.json")
}

func (c *CLI) historyPath() string {
	return filepath.Join(c.home, "history.json")
}
