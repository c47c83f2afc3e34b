package domain

import (
	"fmt"
	"strings"
)

// ConsoleTarget identifies which console the presence is broadcast for
type ConsoleTarget string

const (
	ConsoleSwitch1 ConsoleTarget = "switch1"
	ConsoleSwitch2 ConsoleTarget = "switch2"
)

// ConsoleTargets lists every supported target in display order
var ConsoleTargets = []ConsoleTarget{ConsoleSwitch1, ConsoleSwitch2}

// ParseConsoleTarget converts user input ("switch2", "Switch 2", "ns2") to a target
func ParseConsoleTarget(s string) (ConsoleTarget, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	switch normalized {
	case "switch1", "switch", "ns1", "ns", "1":
		return ConsoleSwitch1, nil
	case "switch2", "ns2", "2":
		return ConsoleSwitch2, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownConsole, s)
}

// DisplayName returns the human-readable console name
func (t ConsoleTarget) DisplayName() string {
	switch t {
	case ConsoleSwitch1:
		return "Nintendo Switch"
	case ConsoleSwitch2:
		return "Nintendo Switch 2"
	default:
		return string(t)
	}
}

// Valid reports whether t is one of the supported targets
func (t ConsoleTarget) Valid() bool {
	return t == ConsoleSwitch1 || t == ConsoleSwitch2
}

// Title is a playable game as listed in a console catalog.
// Name is unique within a catalog snapshot.
type Title struct {
	Name    string `json:"title"`
	Artwork string `json:"img"`
}

// Sentinel title used when nothing else is selected
const (
	HomeTitle   = "Home"
	HomeArtwork = "home"

	// PlaceholderArtwork is shown for pinned titles missing from the active catalog
	PlaceholderArtwork = HomeArtwork

	DefaultStatusText = "Online"
	IdleStatusText    = "Idle"
)

// Selection is the title that will be published
type Selection struct {
	Name    string
	Artwork string
}

// HomeSelection is the default selection
var HomeSelection = Selection{Name: HomeTitle, Artwork: HomeArtwork}

// IsHome reports whether s is the sentinel selection
func (s Selection) IsHome() bool {
	return s == HomeSelection
}

// Presence is a single presence update
type Presence struct {
	Title   string
	Status  string
	Artwork string
}

// CatalogStatus tracks the freshness of a catalog snapshot
type CatalogStatus int

const (
	CatalogIdle CatalogStatus = iota
	CatalogLoading
	CatalogFresh
	CatalogStale // restored from the local cache, not yet refreshed
	CatalogError
)

func (s CatalogStatus) String() string {
	switch s {
	case CatalogIdle:
		return "idle"
	case CatalogLoading:
		return "loading"
	case CatalogFresh:
		return "fresh"
	case CatalogStale:
		return "stale"
	case CatalogError:
		return "error"
	default:
		return fmt.Sprintf("CatalogStatus(%d)", int(s))
	}
}

// CatalogSnapshot is the catalog currently known for a target.
// Snapshots are replaced, never modified.
type CatalogSnapshot struct {
	Target ConsoleTarget
	Status CatalogStatus
	Titles []Title
	Err    error // last fetch error when Status == CatalogError
}

// IsStale reports whether the titles did not come from the last fetch attempt
func (c CatalogSnapshot) IsStale() bool {
	return c.Status == CatalogStale || (c.Status == CatalogError && len(c.Titles) > 0)
}

// Find returns the title with the given name
func (c CatalogSnapshot) Find(name string) (Title, bool) {
	return FindTitle(c.Titles, name)
}

// FindTitle looks up a title by exact name
func FindTitle(titles []Title, name string) (Title, bool) {
	for _, t := range titles {
		if t.Name == name {
			return t, true
		}
	}
	return Title{}, false
}

// Health describes the presence connection
type Health int

const (
	HealthUnknown Health = iota
	HealthHealthy
	HealthDegraded
)

func (h Health) String() string {
	switch h {
	case HealthHealthy:
		return "healthy"
	case HealthDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// ViewMode selects which list is visible
type ViewMode int

const (
	ViewAllGames ViewMode = iota
	ViewPinnedGames
)

func (v ViewMode) String() string {
	if v == ViewPinnedGames {
		return "pinned"
	}
	return "all"
}
