package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/nsrpc/nsrpc/internal/domain"
	"github.com/nsrpc/nsrpc/internal/tui/styles"
)

// View renders the whole screen
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	var rows []string
	for i := 0; i < m.headerPadding(); i++ {
		rows = append(rows, "")
	}
	rows = append(rows, m.renderHeader(), m.renderConsoleTabs())
	if m.bannerVisible() {
		rows = append(rows, m.renderBanner())
	}

	bodyHeight := m.Height - ChromeHeight - m.headerPadding()
	if m.bannerVisible() {
		bodyHeight--
	}
	bodyHeight = max(bodyHeight, 3)

	var body string
	if m.Input.IsVisible() {
		body = lipgloss.Place(m.Width, bodyHeight, lipgloss.Center, lipgloss.Center, m.Input.View())
	} else {
		layout := calculateLayout(m.Width)
		body = m.List.View()
		if layout.cardWidth > 0 {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.renderCard(layout.cardWidth, bodyHeight))
		}
	}

	rows = append(rows, body, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("NS-RPC")
	sub := "Discord Rich Presence for Nintendo Switch & Nintendo Switch 2"
	return styles.HeaderStyle.Width(m.Width).Render(title + "  " + styles.Truncate(sub, max(m.Width-12, 0)))
}

// renderConsoleTabs shows both consoles with the active one highlighted
func (m Model) renderConsoleTabs() string {
	var tabs []string
	for i, target := range domain.ConsoleTargets {
		label := fmt.Sprintf("%d %s", i+1, target.DisplayName())
		if target == m.snapshot.Target {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(label))
		}
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.snapshot.Busy {
		line += " " + m.Spinner.View()
	}
	return line
}

func (m Model) renderBanner() string {
	text := "Discord connection lost · press c to reconnect"
	return styles.BannerStyle.Width(m.Width).Render(styles.Truncate(text, max(m.Width-2, 0)))
}

// renderCard previews the presence that u would publish
func (m Model) renderCard(width, height int) string {
	inner := max(width-styles.InactiveBorder.GetHorizontalFrameSize()-2, 10)
	s := m.snapshot

	field := func(label, value string) string {
		return styles.DimStyle.Render(fmt.Sprintf("%-9s", label)) +
			styles.Truncate(value, max(inner-9, 1))
	}

	lines := []string{
		styles.AccentStyle.Render("Presence"),
		"",
		field("Playing", s.Selection.Name),
		field("Status", s.StatusText),
		field("Artwork", s.Selection.Artwork),
		field("Console", s.Target.DisplayName()),
		"",
		field("Games", renderCatalogStatus(s.Catalog)),
		field("Discord", renderHealth(s.Health)),
	}
	if s.Catalog.Status == domain.CatalogError && s.Catalog.Err != nil {
		lines = append(lines, "", styles.ErrorStyle.Render(styles.Truncate(s.Catalog.Err.Error(), inner)))
	}
	if s.IsPinned(s.Selection.Name) {
		lines = append(lines, "", styles.WarnStyle.Render(styles.PinChar+" pinned"))
	}

	frameW, frameH := styles.InactiveBorder.GetFrameSize()
	return styles.InactiveBorder.
		Width(max(width-frameW, 0)).
		Height(max(height-frameH, 0)).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func renderCatalogStatus(c domain.CatalogSnapshot) string {
	count := fmt.Sprintf("%d", len(c.Titles))
	switch c.Status {
	case domain.CatalogFresh:
		return styles.SuccessStyle.Render("up to date") + styles.DimStyle.Render(" · "+count)
	case domain.CatalogStale:
		return styles.WarnStyle.Render("cached") + styles.DimStyle.Render(" · "+count)
	case domain.CatalogLoading:
		return styles.DimStyle.Render("loading...")
	case domain.CatalogError:
		if c.IsStale() {
			return styles.ErrorStyle.Render("failed") + styles.DimStyle.Render(" · showing "+count+" cached")
		}
		return styles.ErrorStyle.Render("failed")
	default:
		return styles.DimStyle.Render("not loaded")
	}
}

func renderHealth(h domain.Health) string {
	switch h {
	case domain.HealthHealthy:
		return styles.SuccessStyle.Render("● connected")
	case domain.HealthDegraded:
		return styles.ErrorStyle.Render("● disconnected")
	default:
		return styles.DimStyle.Render("○ connecting")
	}
}

func (m Model) renderFooter() string {
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.DimStyle.Render(m.StatusMsg)
	case m.List.IsFilterTyping():
		left = styles.DimStyle.Render("enter accept · esc clear")
	default:
		left = hint(Keys.Select) + "  " + hint(Keys.Publish) + "  " + hint(Keys.EditStatus) + "  " + hint(Keys.TogglePin)
	}

	right := hint(Keys.Help)

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func hint(b key.Binding) string {
	h := b.Help()
	return styles.HelpKeyStyle.Render(h.Key) + styles.HelpDescStyle.Render(" "+h.Desc)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
GAMES                             PRESENCE
  j/k        Up/down                u      Update presence
  g/G        First/last game        i      Go idle
  /          Filter                 s      Edit status
  Enter      Select game            H      Select Home

CONSOLE                           PINS
  1 / 2      Switch / Switch 2      p      Pin/unpin game
  Tab        Other console          P      Pin by name
  r          Refresh games          v      Pinned/all games
  c          Reconnect Discord

  ?          This help              q      Quit

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}
