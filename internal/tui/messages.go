package tui

import (
	"github.com/nsrpc/nsrpc/internal/domain"
	"github.com/nsrpc/nsrpc/internal/session"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// StateChangedMsg carries a session snapshot from the observer channel
type StateChangedMsg struct {
	State session.State
}

// StartedMsg signals that the session connected and restored its data.
// Err is set when the presence connection failed; the session still runs.
type StartedMsg struct {
	Err error
}

// ConsoleSwitchedMsg signals a successful console switch
type ConsoleSwitchedMsg struct {
	Target domain.ConsoleTarget
}

// CatalogLoadedMsg signals that a catalog refresh finished
type CatalogLoadedMsg struct {
	Target domain.ConsoleTarget
	Count  int
}

// PublishedMsg signals that the presence was updated
type PublishedMsg struct {
	Presence domain.Presence
	Idle     bool
}

// HealthTickMsg schedules the next connection health check
type HealthTickMsg struct{}

// HealthCheckedMsg reports the result of a health check
type HealthCheckedMsg struct {
	Health domain.Health
}

// ReconnectedMsg signals that the presence connection was re-established
type ReconnectedMsg struct{}

// PinChangedMsg signals that a title was pinned or unpinned
type PinChangedMsg struct {
	Title  string
	Pinned bool
}

// ViewToggledMsg signals a switch between all games and pinned games
type ViewToggledMsg struct {
	Mode domain.ViewMode
}

// ClearStatusMsg clears the status bar message if it is still the one with ID
type ClearStatusMsg struct {
	ID int
}
