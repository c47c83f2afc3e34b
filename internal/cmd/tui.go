package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nsrpc/nsrpc/internal/session"
	"github.com/nsrpc/nsrpc/internal/tui"
	"github.com/nsrpc/nsrpc/internal/tui/styles"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNotInteractive = errors.New("the interactive picker needs a terminal; see nsrpc --help for scriptable commands")

// isInteractive reports whether stdin and stdout are terminals
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runTUI(cmd *cobra.Command, opts *globalOptions) error {
	if !isInteractive() {
		return errNotInteractive
	}

	states := make(chan session.State, 64)
	a, err := newApp(opts, "", session.WithObserver(tui.NewChannelObserver(states)))
	if err != nil {
		return err
	}
	defer a.close(true)

	if a.cfg.UI.AccentColor != "" {
		styles.SetAccent(lipgloss.Color(a.cfg.UI.AccentColor))
	}

	model := tui.NewModel(a.session, tui.Options{
		States:         states,
		HealthInterval: a.cfg.Session.HealthInterval,
		Logger:         a.logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
