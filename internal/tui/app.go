package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nsrpc/nsrpc/internal/domain"
	"github.com/nsrpc/nsrpc/internal/session"
	"github.com/nsrpc/nsrpc/internal/tui/components"
	"github.com/nsrpc/nsrpc/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

// inputPurpose says what a submitted InputModal value is used for
type inputPurpose int

const (
	inputStatus inputPurpose = iota
	inputPin
)

const statusMessageTTL = 4 * time.Second

// Options configures the model
type Options struct {
	// States receives snapshots from a ChannelObserver registered on the session
	States <-chan session.State

	// HealthInterval is how often the presence connection is checked; 0 disables
	HealthInterval time.Duration

	Logger *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	Session *session.Session
	states  <-chan session.State
	logger  *slog.Logger

	// Last session snapshot the view is rendered from
	snapshot session.State

	// UI Components
	List    components.GameList
	Input   components.InputModal
	Spinner spinner.Model
	purpose inputPurpose

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	statusID    int
	started     bool

	healthInterval time.Duration
	macPadding     bool
}

// NewModel creates a new application model
func NewModel(s *session.Session, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	m := Model{
		State:          StateBrowsing,
		Session:        s,
		states:         opts.States,
		logger:         logger,
		List:           components.NewGameList("All games"),
		Input:          components.NewInputModal(),
		Spinner:        sp,
		healthInterval: opts.HealthInterval,
		macPadding:     isHostPlatform("darwin"),
	}
	m.applyState(s.State())
	return m
}

// Init starts the session and the background tickers
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		StartCmd(m.Session),
		WaitForStateCmd(m.states),
		m.Spinner.Tick,
		HealthTickCmd(m.healthInterval),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		m.List.SetLoading(m.loading(), m.Spinner.View())
		return m, cmd

	case StateChangedMsg:
		m.applyState(msg.State)
		return m, WaitForStateCmd(m.states)

	case StartedMsg:
		m.started = true
		m.applyState(m.Session.State())
		var status tea.Cmd
		if msg.Err != nil {
			status = m.setStatus("Discord not reachable, press c to retry", true)
		} else {
			status = m.setStatus("Connected to Discord as "+m.snapshot.Target.DisplayName(), false)
		}
		return m, tea.Batch(status, RefreshCmd(m.Session))

	case CatalogLoadedMsg:
		m.applyState(m.Session.State())
		return m, m.setStatus(fmt.Sprintf("Loaded %d games for %s", msg.Count, msg.Target.DisplayName()), false)

	case ConsoleSwitchedMsg:
		m.applyState(m.Session.State())
		if m.snapshot.Catalog.Status == domain.CatalogError {
			return m, m.setStatus(fmt.Sprintf("Switched to %s, but its games could not be loaded", msg.Target.DisplayName()), true)
		}
		return m, m.setStatus("Switched to "+msg.Target.DisplayName(), false)

	case PublishedMsg:
		m.applyState(m.Session.State())
		if msg.Idle {
			return m, m.setStatus("Presence set to idle", false)
		}
		return m, m.setStatus(fmt.Sprintf("Now showing %s · %s", msg.Presence.Title, msg.Presence.Status), false)

	case HealthTickMsg:
		return m, tea.Batch(CheckHealthCmd(m.Session), HealthTickCmd(m.healthInterval))

	case HealthCheckedMsg:
		m.applyState(m.Session.State())
		return m, nil

	case ReconnectedMsg:
		m.applyState(m.Session.State())
		return m, m.setStatus("Reconnected to Discord", false)

	case PinChangedMsg:
		m.applyState(m.Session.State())
		if msg.Pinned {
			return m, m.setStatus("Pinned "+msg.Title, false)
		}
		return m, m.setStatus("Unpinned "+msg.Title, false)

	case ViewToggledMsg:
		m.applyState(m.Session.State())
		return m, nil

	case ErrMsg:
		m.applyState(m.Session.State())
		m.logger.Warn("ui operation failed", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(errorText(msg), true)

	case ClearStatusMsg:
		if msg.ID == m.statusID {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil
	}

	return m, nil
}

// handleKeyMsg routes key presses
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.State == StateHelp {
		m.State = StateBrowsing
		return m, nil
	}

	if m.Input.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.Input, cmd, submitted = m.Input.Update(msg)
		if submitted {
			return m.submitInput()
		}
		return m, cmd
	}

	if m.List.IsFilterTyping() {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.List, cmd = m.List.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Select):
		t, ok := m.List.CursorTitle()
		if !ok {
			return m, nil
		}
		if err := m.Session.SelectTitle(t.Name); err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		m.applyState(m.Session.State())
		return m, m.setStatus("Selected "+t.Name+", press u to update presence", false)

	case key.Matches(msg, Keys.Home):
		m.Session.ResetSelection()
		m.applyState(m.Session.State())
		return m, nil

	case key.Matches(msg, Keys.Publish):
		return m, PublishCmd(m.Session)

	case key.Matches(msg, Keys.Idle):
		return m, PublishIdleCmd(m.Session)

	case key.Matches(msg, Keys.EditStatus):
		m.purpose = inputStatus
		m.Input.Show("Status", "Online, Racing with friends, etc...", m.snapshot.StatusText)
		return m, nil

	case key.Matches(msg, Keys.Switch1):
		return m.switchConsole(domain.ConsoleSwitch1)

	case key.Matches(msg, Keys.Switch2):
		return m.switchConsole(domain.ConsoleSwitch2)

	case key.Matches(msg, Keys.ToggleConsole):
		next := domain.ConsoleSwitch2
		if m.snapshot.Target == domain.ConsoleSwitch2 {
			next = domain.ConsoleSwitch1
		}
		return m.switchConsole(next)

	case key.Matches(msg, Keys.Refresh):
		if m.snapshot.Busy {
			return m, m.setStatus("Still loading, try again in a moment", true)
		}
		return m, RefreshCmd(m.Session)

	case key.Matches(msg, Keys.Reconnect):
		m.showProgress("Reconnecting to Discord...")
		return m, ReconnectCmd(m.Session)

	case key.Matches(msg, Keys.TogglePin):
		t, ok := m.List.CursorTitle()
		if !ok {
			return m, nil
		}
		return m, PinCmd(m.Session, t.Name, !m.snapshot.IsPinned(t.Name))

	case key.Matches(msg, Keys.PinByName):
		m.purpose = inputPin
		m.Input.Show("Pin a game", "Exact game title", "")
		m.Input.SetHint("Pins are shared by both consoles")
		return m, nil

	case key.Matches(msg, Keys.PinnedView):
		return m, TogglePinnedViewCmd(m.Session)

	case key.Matches(msg, Keys.Filter):
		m.List.ToggleFilter()
		m.updateLayout()
		return m, nil
	}

	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	value := m.Input.Value()
	switch m.purpose {
	case inputPin:
		if value == "" {
			return m, nil
		}
		return m, PinCmd(m.Session, value, true)
	default:
		if value == "" {
			value = domain.DefaultStatusText
		}
		m.Session.SetStatusText(value)
		m.applyState(m.Session.State())
		return m, m.setStatus("Status set, press u to update presence", false)
	}
}

func (m Model) switchConsole(target domain.ConsoleTarget) (tea.Model, tea.Cmd) {
	if target == m.snapshot.Target {
		return m, nil
	}
	if m.snapshot.Busy {
		return m, m.setStatus("Still loading, try again in a moment", true)
	}
	m.showProgress("Switching to " + target.DisplayName() + "...")
	return m, SwitchConsoleCmd(m.Session, target)
}

// applyState copies a session snapshot into the view components
func (m *Model) applyState(state session.State) {
	hadBanner := m.bannerVisible()
	m.snapshot = state

	m.List.SetTitles(state.Visible)
	m.List.SetPins(state.Pins)
	m.List.SetSelected(state.Selection.Name)
	m.List.SetLoading(m.loading(), m.Spinner.View())

	switch state.ViewMode {
	case domain.ViewPinnedGames:
		m.List.SetTitle(fmt.Sprintf("Pinned games (%d)", len(state.Visible)))
		m.List.SetEmptyMessage("No pinned games, press p on a game to pin it")
	default:
		m.List.SetTitle(fmt.Sprintf("%s games (%d)", state.Target.DisplayName(), len(state.Visible)))
		switch state.Catalog.Status {
		case domain.CatalogIdle, domain.CatalogLoading:
			m.List.SetEmptyMessage("Loading games...")
		case domain.CatalogError:
			m.List.SetEmptyMessage("Could not load games, press r to retry")
		default:
			m.List.SetEmptyMessage("No games")
		}
	}

	if hadBanner != m.bannerVisible() {
		m.updateLayout()
	}
}

func (m Model) loading() bool {
	return m.snapshot.Busy || m.snapshot.Catalog.Status == domain.CatalogLoading
}

func (m Model) bannerVisible() bool {
	return m.started && m.snapshot.Health == domain.HealthDegraded
}

// setStatus shows a footer message that clears itself
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusID++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusID, statusMessageTTL)
}

// showProgress shows a message that stays until the next status replaces it
func (m *Model) showProgress(text string) {
	m.statusID++
	m.StatusMsg = text
	m.StatusIsErr = false
}

func errorText(msg ErrMsg) string {
	switch {
	case errors.Is(msg.Err, domain.ErrBusy):
		return "Still loading, try again in a moment"
	case errors.Is(msg.Err, domain.ErrInvalidPayload):
		return msg.Context + ": the game list is malformed"
	default:
		return msg.Error()
	}
}
