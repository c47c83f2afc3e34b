package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nsrpc/nsrpc/internal/domain"
	"github.com/nsrpc/nsrpc/internal/session"
)

// Timeouts for session calls made from the UI
const (
	connectTimeout = 10 * time.Second
	catalogTimeout = 30 * time.Second
	publishTimeout = 5 * time.Second
	storeTimeout   = 5 * time.Second
)

// Command factories for async operations

// StartCmd restores cached data and connects the presence sink
func StartCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		return StartedMsg{Err: s.Start(ctx)}
	}
}

// RefreshCmd reloads the catalog of the active console
func RefreshCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
		defer cancel()

		if err := s.Refresh(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading games"}
		}
		state := s.State()
		return CatalogLoadedMsg{Target: state.Target, Count: len(state.Catalog.Titles)}
	}
}

// SwitchConsoleCmd switches the active console and loads its catalog
func SwitchConsoleCmd(s *session.Session, target domain.ConsoleTarget) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout+catalogTimeout)
		defer cancel()

		if err := s.SwitchConsole(ctx, target); err != nil {
			return ErrMsg{Err: err, Context: "switching to " + target.DisplayName()}
		}
		return ConsoleSwitchedMsg{Target: target}
	}
}

// PublishCmd sends the current selection and status to Discord
func PublishCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		presence := s.State().Presence()
		if err := s.Publish(ctx); err != nil {
			return ErrMsg{Err: err, Context: "updating presence"}
		}
		return PublishedMsg{Presence: presence}
	}
}

// PublishIdleCmd shows the Home/Idle presence
func PublishIdleCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.PublishIdle(ctx); err != nil {
			return ErrMsg{Err: err, Context: "going idle"}
		}
		return PublishedMsg{
			Presence: domain.Presence{Title: domain.HomeTitle, Status: domain.IdleStatusText, Artwork: domain.HomeArtwork},
			Idle:     true,
		}
	}
}

// HealthTickCmd schedules the next health check. Zero disables checks.
func HealthTickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return HealthTickMsg{}
	})
}

// CheckHealthCmd probes the presence connection
func CheckHealthCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		return HealthCheckedMsg{Health: s.CheckHealth(ctx)}
	}
}

// ReconnectCmd re-establishes the presence connection
func ReconnectCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		if err := s.Reconnect(ctx); err != nil {
			return ErrMsg{Err: err, Context: "reconnecting"}
		}
		return ReconnectedMsg{}
	}
}

// PinCmd pins or unpins a title
func PinCmd(s *session.Session, title string, pin bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		var err error
		if pin {
			err = s.Pin(ctx, title)
		} else {
			err = s.Unpin(ctx, title)
		}
		if err != nil {
			return ErrMsg{Err: err, Context: "updating pins"}
		}
		return PinChangedMsg{Title: title, Pinned: pin}
	}
}

// TogglePinnedViewCmd switches between all games and pinned games
func TogglePinnedViewCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		if err := s.TogglePinnedView(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading pins"}
		}
		return ViewToggledMsg{Mode: s.State().ViewMode}
	}
}

// ClearStatusCmd clears status message id after d
func ClearStatusCmd(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}
