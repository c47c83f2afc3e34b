package session

import (
	"slices"

	"github.com/nsrpc/nsrpc/internal/domain"
)

// State is a read-only copy of the session, safe to keep after the session changes
type State struct {
	Target     domain.ConsoleTarget
	Catalog    domain.CatalogSnapshot
	Visible    []domain.Title // catalog or resolved pins, per ViewMode
	Selection  domain.Selection
	StatusText string
	Health     domain.Health
	ViewMode   domain.ViewMode
	Busy       bool
	Pins       []string
}

// Presence returns the update Publish would send
func (s State) Presence() domain.Presence {
	return domain.Presence{
		Title:   s.Selection.Name,
		Status:  s.StatusText,
		Artwork: s.Selection.Artwork,
	}
}

// IsPinned reports whether name is in the pin set
func (s State) IsPinned(name string) bool {
	return slices.Contains(s.Pins, name)
}

// Observer is notified after every state change.
// It is called without the session lock held and must not block.
type Observer interface {
	OnStateChange(state State)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(State)

func (f ObserverFunc) OnStateChange(state State) { f(state) }

// resolvePins builds the pinned view: catalog artwork when the title is
// known, otherwise the placeholder. Pins are global, so names from the
// other console's catalog are still listed.
func resolvePins(pins []string, catalog []domain.Title) []domain.Title {
	resolved := make([]domain.Title, 0, len(pins))
	for _, name := range pins {
		if t, ok := domain.FindTitle(catalog, name); ok {
			resolved = append(resolved, t)
			continue
		}
		resolved = append(resolved, domain.Title{Name: name, Artwork: domain.PlaceholderArtwork})
	}
	return resolved
}
