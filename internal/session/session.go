// Package session holds the presence session controller: the active console,
// its catalog, the current selection, pins and connection health. The TUI and
// CLI only talk to a *Session; the Session alone talks to the catalog source,
// the presence sink and the pin store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/nsrpc/nsrpc/internal/domain"
)

// Deps are the collaborators a session coordinates
type Deps struct {
	Catalogs domain.CatalogSource
	Sink     domain.PresenceSink
	Pins     domain.PinStore
	Cache    domain.CatalogCache // optional
}

// Option configures a Session
type Option func(*Session)

// WithTarget sets the console that is active at startup
func WithTarget(target domain.ConsoleTarget) Option {
	return func(s *Session) { s.target = target }
}

// WithStatusText sets the initial status text
func WithStatusText(text string) Option {
	return func(s *Session) { s.status = text }
}

// WithObserver registers the state change observer
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// Session is the single presence session of the process.
// All methods are safe for concurrent use.
type Session struct {
	catalogs domain.CatalogSource
	sink     domain.PresenceSink
	pins     domain.PinStore
	cache    domain.CatalogCache
	logger   *slog.Logger
	observer Observer

	mu        sync.Mutex
	target    domain.ConsoleTarget
	gen       uint64 // bumped on every console switch
	catalog   domain.CatalogSnapshot
	pinned    []string
	visible   []domain.Title
	selection domain.Selection
	status    string
	health    domain.Health
	view      domain.ViewMode
	busy      bool // a catalog fetch or console switch is in flight
}

// New creates the session. Call Start before publishing.
func New(deps Deps, opts ...Option) *Session {
	s := &Session{
		catalogs:  deps.Catalogs,
		sink:      deps.Sink,
		pins:      deps.Pins,
		cache:     deps.Cache,
		target:    domain.ConsoleSwitch1,
		selection: domain.HomeSelection,
		status:    domain.DefaultStatusText,
		health:    domain.HealthUnknown,
		view:      domain.ViewAllGames,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("session", uuid.NewString())
	s.catalog = domain.CatalogSnapshot{Target: s.target, Status: domain.CatalogIdle}
	return s
}

// Start restores the cached catalog and pins, then connects the presence
// sink. A failed connection leaves the session
// usable with degraded health; the error is returned for display.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	target := s.target
	s.mu.Unlock()

	if s.cache != nil {
		if titles, ok := s.cache.GetCatalog(target); ok {
			s.mu.Lock()
			if s.target == target && s.catalog.Status == domain.CatalogIdle {
				s.catalog = domain.CatalogSnapshot{Target: target, Status: domain.CatalogStale, Titles: slices.Clone(titles)}
				s.refreshVisibleLocked()
			}
			s.mu.Unlock()
			s.logger.Debug("restored cached catalog", "target", target, "count", len(titles))
		}
	}

	if err := s.ReloadPins(ctx); err != nil {
		s.logger.Warn("failed to load pins", "error", err)
	}

	err := s.sink.Connect(ctx, target)
	s.mu.Lock()
	if err != nil {
		s.health = domain.HealthDegraded
	} else {
		s.health = domain.HealthHealthy
	}
	s.mu.Unlock()
	s.notify()

	if err != nil {
		s.logger.Warn("presence connection failed at startup", "target", target, "error", err)
		return collaboratorErr("connect presence", err)
	}
	s.logger.Info("session started", "target", target)
	return nil
}

// Close disconnects the presence sink
func (s *Session) Close() error {
	s.logger.Info("session closing")
	return s.sink.Disconnect()
}

// State returns a snapshot of the session
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	catalog := s.catalog
	catalog.Titles = slices.Clone(s.catalog.Titles)
	return State{
		Target:     s.target,
		Catalog:    catalog,
		Visible:    slices.Clone(s.visible),
		Selection:  s.selection,
		StatusText: s.status,
		Health:     s.health,
		ViewMode:   s.view,
		Busy:       s.busy,
		Pins:       slices.Clone(s.pinned),
	}
}

// Pins returns the cached pin set
func (s *Session) Pins() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.pinned)
}

// === Console switch & catalog ===

// SwitchConsole makes target the active console. Switching to the active
// console is a no-op. When the sink is not ready for target nothing changes
// and ErrUnavailable is returned. On success the catalog for target is
// fetched before returning; a failed fetch shows up in State().Catalog, not
// as an error from SwitchConsole.
func (s *Session) SwitchConsole(ctx context.Context, target domain.ConsoleTarget) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownConsole, target)
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return domain.ErrBusy
	}
	if s.target == target {
		s.mu.Unlock()
		return nil
	}
	s.busy = true
	s.mu.Unlock()
	s.notify()
	defer s.release()

	if !s.sink.SwitchTarget(ctx, target) {
		s.mu.Lock()
		// the sink dropped its old connection while probing the new target
		s.health = domain.HealthDegraded
		s.mu.Unlock()
		s.logger.Warn("console switch rejected", "target", target)
		return fmt.Errorf("%w: presence not ready for %s", domain.ErrUnavailable, target)
	}

	s.mu.Lock()
	from := s.target
	s.target = target
	s.gen++
	gen := s.gen
	s.catalog = domain.CatalogSnapshot{Target: target, Status: domain.CatalogLoading}
	s.selection = domain.HomeSelection
	s.health = domain.HealthHealthy
	s.refreshVisibleLocked()
	s.mu.Unlock()
	s.notify()

	s.logger.Info("switched console", "from", from, "to", target)

	if err := s.fetch(ctx, target, gen); err != nil {
		s.logger.Warn("catalog load after switch failed", "target", target, "error", err)
	}
	return nil
}

// LoadCatalog fetches the catalog of target, which must be the active
// console. A result that arrives after the console changed is discarded.
// On failure the previous titles stay visible and the snapshot is marked
// as an error.
func (s *Session) LoadCatalog(ctx context.Context, target domain.ConsoleTarget) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownConsole, target)
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return domain.ErrBusy
	}
	if target != s.target {
		active := s.target
		s.mu.Unlock()
		return fmt.Errorf("%w: %s (active: %s)", domain.ErrInactiveConsole, target, active)
	}
	s.busy = true
	gen := s.gen
	s.catalog = domain.CatalogSnapshot{Target: target, Status: domain.CatalogLoading, Titles: s.catalog.Titles}
	s.mu.Unlock()
	s.notify()
	defer s.release()

	return s.fetch(ctx, target, gen)
}

// Refresh reloads the catalog of the active console
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	target := s.target
	s.mu.Unlock()
	return s.LoadCatalog(ctx, target)
}

// fetch runs with the busy flag held by the caller
func (s *Session) fetch(ctx context.Context, target domain.ConsoleTarget, gen uint64) error {
	var titles []domain.Title
	provider, err := s.catalogs.Provider(target)
	if err == nil {
		titles, err = provider.FetchCatalog(ctx)
	}

	s.mu.Lock()
	if s.target != target || s.gen != gen {
		current := s.target
		s.mu.Unlock()
		s.logger.Debug("discarding catalog for inactive console", "target", target, "active", current)
		return nil
	}

	if err != nil {
		s.catalog = domain.CatalogSnapshot{
			Target: target,
			Status: domain.CatalogError,
			Titles: s.catalog.Titles,
			Err:    err,
		}
		s.mu.Unlock()
		s.notify()
		s.logger.Error("failed to load catalog", "target", target, "error", err)
		return collaboratorErr("load catalog", err)
	}

	s.catalog = domain.CatalogSnapshot{Target: target, Status: domain.CatalogFresh, Titles: slices.Clone(titles)}
	if !s.selection.IsHome() {
		if _, ok := s.catalog.Find(s.selection.Name); !ok {
			s.logger.Debug("selection left the catalog", "title", s.selection.Name)
			s.selection = domain.HomeSelection
		}
	}
	s.refreshVisibleLocked()
	s.mu.Unlock()
	s.notify()

	s.logger.Info("loaded catalog", "target", target, "count", len(titles))

	if s.cache != nil {
		if err := s.cache.SaveCatalog(target, titles); err != nil {
			s.logger.Warn("failed to cache catalog", "target", target, "error", err)
		}
	}
	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
	s.notify()
}

// === Selection & publish ===

// SelectTitle selects name from the visible list
func (s *Session) SelectTitle(name string) error {
	s.mu.Lock()
	t, ok := domain.FindTitle(s.visible, name)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", domain.ErrNotInView, name)
	}
	s.selection = domain.Selection{Name: t.Name, Artwork: t.Artwork}
	s.mu.Unlock()
	s.notify()
	return nil
}

// ResetSelection returns to the Home selection
func (s *Session) ResetSelection() {
	s.mu.Lock()
	s.selection = domain.HomeSelection
	s.mu.Unlock()
	s.notify()
}

// SetStatusText replaces the status shown under the title
func (s *Session) SetStatusText(text string) {
	s.mu.Lock()
	s.status = text
	s.mu.Unlock()
	s.notify()
}

// Publish sends the current selection and status. On failure health is
// degraded and the selection is kept so the caller can retry.
func (s *Session) Publish(ctx context.Context) error {
	s.mu.Lock()
	p := s.stateLocked().Presence()
	s.mu.Unlock()
	return s.publish(ctx, p)
}

// PublishIdle shows the Home/Idle presence without touching the selection
func (s *Session) PublishIdle(ctx context.Context) error {
	return s.publish(ctx, domain.Presence{
		Title:   domain.HomeTitle,
		Status:  domain.IdleStatusText,
		Artwork: domain.HomeArtwork,
	})
}

func (s *Session) publish(ctx context.Context, p domain.Presence) error {
	ok := s.sink.Publish(ctx, p)

	s.mu.Lock()
	if ok {
		s.health = domain.HealthHealthy
	} else {
		s.health = domain.HealthDegraded
	}
	s.mu.Unlock()
	s.notify()

	if !ok {
		s.logger.Warn("publish failed", "title", p.Title)
		return fmt.Errorf("%w: publish %q", domain.ErrUnavailable, p.Title)
	}
	s.logger.Info("published presence", "title", p.Title, "status", p.Status)
	return nil
}

// === Connection health ===

// CheckHealth probes the sink. The sink reports problems, so true means degraded.
func (s *Session) CheckHealth(ctx context.Context) domain.Health {
	hasError := s.sink.HasError(ctx)

	s.mu.Lock()
	if hasError {
		s.health = domain.HealthDegraded
	} else {
		s.health = domain.HealthHealthy
	}
	health := s.health
	s.mu.Unlock()
	s.notify()
	return health
}

// Reconnect asks the sink to reconnect. Safe to call repeatedly.
func (s *Session) Reconnect(ctx context.Context) error {
	ok := s.sink.Reconnect(ctx)

	s.mu.Lock()
	if ok {
		s.health = domain.HealthHealthy
	} else {
		s.health = domain.HealthDegraded
	}
	s.mu.Unlock()
	s.notify()

	if !ok {
		s.logger.Warn("reconnect failed")
		return fmt.Errorf("%w: reconnect failed", domain.ErrUnavailable)
	}
	s.logger.Info("reconnected")
	return nil
}

// === Pins ===

// ReloadPins re-reads the pin set from the store
func (s *Session) ReloadPins(ctx context.Context) error {
	pins, err := s.pins.ListPins()
	if err != nil {
		return collaboratorErr("list pins", err)
	}
	s.mu.Lock()
	s.pinned = pins
	s.refreshVisibleLocked()
	s.revalidateSelectionLocked()
	s.mu.Unlock()
	s.notify()
	return nil
}

// Pin adds name to the pin set. Pinning twice is a no-op.
func (s *Session) Pin(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty title", domain.ErrInvalidPayload)
	}
	if err := s.pins.AddPin(name); err != nil {
		s.logger.Error("failed to pin title", "title", name, "error", err)
		return collaboratorErr("pin", err)
	}

	s.mu.Lock()
	if !slices.Contains(s.pinned, name) {
		s.pinned = append(s.pinned, name)
	}
	s.refreshVisibleLocked()
	s.mu.Unlock()
	s.notify()

	s.logger.Info("pinned title", "title", name)
	return nil
}

// Unpin removes name from the pin set. Unpinning a missing title is a no-op.
func (s *Session) Unpin(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty title", domain.ErrInvalidPayload)
	}
	if err := s.pins.RemovePin(name); err != nil {
		s.logger.Error("failed to unpin title", "title", name, "error", err)
		return collaboratorErr("unpin", err)
	}

	s.mu.Lock()
	s.pinned = slices.DeleteFunc(s.pinned, func(p string) bool { return p == name })
	s.refreshVisibleLocked()
	s.revalidateSelectionLocked()
	s.mu.Unlock()
	s.notify()

	s.logger.Info("unpinned title", "title", name)
	return nil
}

// TogglePinnedView switches between the full catalog and the pinned titles.
// Entering the pinned view re-reads the pin store; leaving it does not fetch.
func (s *Session) TogglePinnedView(ctx context.Context) error {
	s.mu.Lock()
	view := s.view
	s.mu.Unlock()

	if view == domain.ViewAllGames {
		pins, err := s.pins.ListPins()
		if err != nil {
			s.logger.Error("failed to list pins", "error", err)
			return collaboratorErr("list pins", err)
		}
		s.mu.Lock()
		s.pinned = pins
		s.view = domain.ViewPinnedGames
	} else {
		s.mu.Lock()
		s.view = domain.ViewAllGames
	}
	s.refreshVisibleLocked()
	s.revalidateSelectionLocked()
	view = s.view
	s.mu.Unlock()
	s.notify()

	s.logger.Debug("view mode changed", "view", view)
	return nil
}

// === Helpers ===

// refreshVisibleLocked rebuilds the visible list from the view mode
func (s *Session) refreshVisibleLocked() {
	if s.view == domain.ViewPinnedGames {
		s.visible = resolvePins(s.pinned, s.catalog.Titles)
		return
	}
	s.visible = slices.Clone(s.catalog.Titles)
}

// revalidateSelectionLocked falls back to Home when the selection left the visible list
func (s *Session) revalidateSelectionLocked() {
	if s.selection.IsHome() {
		return
	}
	if _, ok := domain.FindTitle(s.visible, s.selection.Name); !ok {
		s.selection = domain.HomeSelection
	}
}

func (s *Session) notify() {
	if s.observer == nil {
		return
	}
	s.observer.OnStateChange(s.State())
}

// collaboratorErr keeps the error taxonomy: errors already classified pass
// through, anything else is reported as ErrUnavailable.
func collaboratorErr(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnavailable),
		errors.Is(err, domain.ErrInvalidPayload),
		errors.Is(err, domain.ErrUnknownConsole),
		errors.Is(err, domain.ErrBusy):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %v", op, domain.ErrUnavailable, err)
	}
}
