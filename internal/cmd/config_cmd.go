package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/nsrpc/nsrpc/internal/adapter"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}
	cmd.AddCommand(newConfigShowCmd(opts), newConfigInitCmd(opts))
	return cmd
}

func newConfigShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := adapter.LoadConfig(opts.configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			file := cfg.File
			if file == "" {
				file = dim("none, using defaults")
			}
			keyValue(out, "Config file", file)

			subHeader(out, "Presence")
			keyValue(out, "Switch client ID", cfg.Presence.Switch1ClientID)
			keyValue(out, "Switch 2 client ID", cfg.Presence.Switch2ClientID)

			subHeader(out, "Catalog")
			keyValue(out, "Switch games file", orNone(cfg.Catalog.Switch1File))
			keyValue(out, "Switch games URL", orNone(cfg.Catalog.Switch1URL))
			keyValue(out, "HTTP timeout", cfg.Catalog.HTTPTimeout.String())

			subHeader(out, "Session")
			keyValue(out, "Default console", cfg.DefaultConsole().DisplayName())
			keyValue(out, "Default status", cfg.Session.DefaultStatus)
			keyValue(out, "Health interval", cfg.Session.HealthInterval.String())

			subHeader(out, "Storage")
			keyValue(out, "Store path", orNone(cfg.Store.Path))
			keyValue(out, "Log file", orNone(cfg.Logging.File))
			keyValue(out, "Log level", cfg.Logging.Level)

			subHeader(out, "UI")
			keyValue(out, "Accent color", cfg.UI.AccentColor)
			return nil
		},
	}
}

func newConfigInitCmd(opts *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configFile
			if path == "" {
				path = adapter.DefaultConfigFile()
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to check config file: %w", err)
			}

			written, err := adapter.SaveConfig(adapter.DefaultConfig(), path)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", written)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func orNone(s string) string {
	if s == "" {
		return dim("none")
	}
	return s
}
