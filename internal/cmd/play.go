package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nsrpc/nsrpc/internal/catalog"
	"github.com/nsrpc/nsrpc/internal/domain"
	"github.com/nsrpc/nsrpc/internal/session"
	"github.com/spf13/cobra"
)

const maxSuggestions = 5

var errAmbiguousTitle = errors.New("title is ambiguous")

func newPlayCmd(opts *globalOptions) *cobra.Command {
	var console, status string

	cmd := &cobra.Command{
		Use:   "play <title>",
		Short: "Show a game as your Discord activity",
		Long: `Publish a game as your Discord activity and keep it there until
interrupted. The title is matched against the console's game list; a unique
fuzzy match is accepted. Use "Home" for the Home menu.

The connection is checked periodically and re-established when Discord
restarts.`,
		Example: `  nsrpc play "Mario Kart World" --console switch2
  nsrpc play zelda --status "Exploring"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			a, err := newApp(opts, console, session.WithObserver(healthReporter(out)))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := a.session.Start(ctx); err != nil {
				a.close(false)
				return fmt.Errorf("failed to connect to Discord: %w", err)
			}
			defer a.close(true)

			target := a.session.State().Target

			if strings.EqualFold(strings.TrimSpace(args[0]), domain.HomeTitle) {
				a.session.ResetSelection()
			} else {
				err = withSpinner("Loading "+target.DisplayName()+" games...", func() error {
					return a.session.LoadCatalog(ctx, target)
				})
				if err != nil {
					return fmt.Errorf("failed to load games: %w", err)
				}

				title, err := resolveTitle(a.session.State().Visible, args[0])
				if err != nil {
					return err
				}
				if err := a.session.SelectTitle(title.Name); err != nil {
					return err
				}
			}

			if cmd.Flags().Changed("status") {
				a.session.SetStatusText(status)
			}

			if err := a.session.Publish(ctx); err != nil {
				return fmt.Errorf("failed to publish: %w", err)
			}

			p := a.session.State().Presence()
			success(out, "Playing %s on %s", bold(p.Title), target.DisplayName())
			keyValue(out, "Status", p.Status)
			info(out, "Press Ctrl+C to stop")

			return watchPresence(ctx, a, a.cfg.Session.HealthInterval)
		},
	}

	cmd.Flags().StringVarP(&console, "console", "c", "", "console: switch1 or switch2 (default from config)")
	cmd.Flags().StringVarP(&status, "status", "s", "", "status shown under the title (default from config)")
	return cmd
}

// healthReporter prints a line when the connection drops or comes back
func healthReporter(w io.Writer) session.Observer {
	health := domain.HealthUnknown
	return session.ObserverFunc(func(st session.State) {
		prev := health
		health = st.Health
		switch {
		case prev == domain.HealthHealthy && health == domain.HealthDegraded:
			warning(w, "Discord connection lost, reconnecting")
		case prev == domain.HealthDegraded && health == domain.HealthHealthy:
			success(w, "Reconnected to Discord")
		}
	})
}

// resolveTitle finds name in titles: exact, then case-insensitive, then a
// single fuzzy match
func resolveTitle(titles []domain.Title, name string) (domain.Title, error) {
	name = strings.TrimSpace(name)
	if t, ok := domain.FindTitle(titles, name); ok {
		return t, nil
	}
	for _, t := range titles {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}

	matches := catalog.Filter(titles, name)
	switch len(matches) {
	case 0:
		return domain.Title{}, fmt.Errorf("%w: %q", domain.ErrNotInView, name)
	case 1:
		return matches[0], nil
	}

	names := make([]string, 0, maxSuggestions)
	for i, t := range matches {
		if i == maxSuggestions {
			break
		}
		names = append(names, fmt.Sprintf("%q", t.Name))
	}
	more := ""
	if len(matches) > maxSuggestions {
		more = fmt.Sprintf(" and %d more", len(matches)-maxSuggestions)
	}
	return domain.Title{}, fmt.Errorf("%w: %q matches %s%s", errAmbiguousTitle, name, strings.Join(names, ", "), more)
}

// watchPresence checks the connection every interval until ctx is done.
// A lost connection is re-established and the presence published again.
func watchPresence(ctx context.Context, a *app, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if a.session.CheckHealth(ctx) != domain.HealthDegraded {
				continue
			}
			a.logger.Warn("presence connection lost, reconnecting")
			if err := a.session.Reconnect(ctx); err != nil {
				continue
			}
			if err := a.session.Publish(ctx); err != nil {
				a.logger.Warn("failed to restore presence", "error", err)
			}
		}
	}
}
