package cmd

import (
	"context"
	"fmt"

	"github.com/nsrpc/nsrpc/internal/catalog"
	"github.com/spf13/cobra"
)

func newCatalogCmd(opts *globalOptions) *cobra.Command {
	var console, filter string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the games available for a console",
		Long: `Load the game list of a console and print it.

Nintendo Switch games come from games.json in the working directory when
present, otherwise from the community list online. Nintendo Switch 2 games
are bundled with nsrpc.`,
		Example: `  nsrpc catalog
  nsrpc catalog --console switch2
  nsrpc catalog --filter zelda`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, console)
			if err != nil {
				return err
			}
			defer a.close(false)

			target := a.session.State().Target
			err = withSpinner("Loading "+target.DisplayName()+" games...", func() error {
				return a.session.LoadCatalog(context.Background(), target)
			})
			if err != nil {
				return fmt.Errorf("failed to load games: %w", err)
			}

			if err := a.session.ReloadPins(context.Background()); err != nil {
				a.logger.Warn("failed to load pins", "error", err)
			}

			state := a.session.State()
			titles := catalog.Filter(state.Catalog.Titles, filter)

			out := cmd.OutOrStdout()
			if len(titles) == 0 {
				if filter != "" {
					warning(out, "No games match %q", filter)
				} else {
					warning(out, "The %s game list is empty", target.DisplayName())
				}
				return nil
			}

			table := newTable(out, "TITLE", "ARTWORK", "PINNED")
			for _, t := range titles {
				pinned := ""
				if state.IsPinned(t.Name) {
					pinned = "★"
				}
				table.Append([]string{t.Name, t.Artwork, pinned})
			}
			table.Render()

			fmt.Fprintln(out)
			info(out, "%d of %d %s games", len(titles), len(state.Catalog.Titles), target.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVarP(&console, "console", "c", "", "console: switch1 or switch2 (default from config)")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "fuzzy filter on the title")
	return cmd
}
