package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/nsrpc/nsrpc/internal/domain"
	"github.com/spf13/cobra"
)

func newPinsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pins",
		Short: "Manage pinned games",
		Long: `Pinned games are shown in the pinned view of the picker.
Pins are shared by both consoles.`,
	}

	cmd.AddCommand(
		newPinsListCmd(opts),
		newPinsAddCmd(opts),
		newPinsRemoveCmd(opts),
	)
	return cmd
}

func newPinsListCmd(opts *globalOptions) *cobra.Command {
	var console string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pinned games",
		Long: `List pinned games with the artwork they have in the console's game list.
Games missing from that list are shown with the placeholder artwork.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, console)
			if err != nil {
				return err
			}
			defer a.close(false)

			ctx := context.Background()
			out := cmd.OutOrStdout()
			target := a.session.State().Target

			// Artwork is resolved from the catalog; pins still list without it
			err = withSpinner("Loading "+target.DisplayName()+" games...", func() error {
				return a.session.LoadCatalog(ctx, target)
			})
			if err != nil {
				warning(out, "Could not load the %s game list, artwork may be missing", target.DisplayName())
			}

			if err := a.session.TogglePinnedView(ctx); err != nil {
				return fmt.Errorf("failed to read pins: %w", err)
			}

			pinned := a.session.State().Visible
			if len(pinned) == 0 {
				info(out, "No pinned games. Pin one with: nsrpc pins add <title>")
				return nil
			}

			table := newTable(out, "TITLE", "ARTWORK")
			for _, t := range pinned {
				artwork := t.Artwork
				if artwork == domain.PlaceholderArtwork && !strings.EqualFold(t.Name, domain.HomeTitle) {
					artwork = dim(artwork + " (not in list)")
				}
				table.Append([]string{t.Name, artwork})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&console, "console", "c", "", "console whose artwork is shown (default from config)")
	return cmd
}

func newPinsAddCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "add <title>",
		Short:   "Pin a game",
		Example: `  nsrpc pins add "Splatoon 3"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, "")
			if err != nil {
				return err
			}
			defer a.close(false)

			if err := a.session.Pin(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to pin %q: %w", args[0], err)
			}
			success(cmd.OutOrStdout(), "Pinned %s", strings.TrimSpace(args[0]))
			return nil
		},
	}
}

func newPinsRemoveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <title>",
		Aliases: []string{"rm"},
		Short:   "Unpin a game",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, "")
			if err != nil {
				return err
			}
			defer a.close(false)

			if err := a.session.Unpin(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to unpin %q: %w", args[0], err)
			}
			success(cmd.OutOrStdout(), "Unpinned %s", args[0])
			return nil
		},
	}
}
