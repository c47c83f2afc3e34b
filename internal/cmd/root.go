// Package cmd implements the nsrpc CLI commands.
package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "dev"

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configFile string
	verbose    bool
	noColor    bool
}

// SetVersion sets the version string (called from main).
func SetVersion(v string) {
	version = v
}

// Execute runs the command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree. Without a subcommand it opens the TUI.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "nsrpc",
		Short: "Discord Rich Presence for Nintendo Switch and Nintendo Switch 2",
		Long: `nsrpc shows the game you are playing on a Nintendo Switch or
Nintendo Switch 2 as your Discord activity.

Run without arguments to open the interactive picker, or use the
subcommands from scripts:

  nsrpc catalog --console switch2     List the games for a console
  nsrpc play "Mario Kart World"       Show a game until interrupted
  nsrpc pins add "Splatoon 3"         Pin a game
  nsrpc config init                   Write the default config file`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				os.Setenv("NO_COLOR", "1")
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is ~/.config/nsrpc/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	root.SetVersionTemplate("nsrpc version {{.Version}}\n")

	root.AddCommand(
		newCatalogCmd(opts),
		newPinsCmd(opts),
		newPlayCmd(opts),
		newConfigCmd(opts),
	)
	return root
}
