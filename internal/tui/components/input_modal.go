package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nsrpc/nsrpc/internal/tui/styles"
)

const modalWidth = 44

// InputModal edits one line of text, such as the presence status or a
// title to pin.
type InputModal struct {
	visible bool
	title   string
	hint    string
	input   textinput.Model
}

// NewInputModal creates a hidden modal
func NewInputModal() InputModal {
	ti := textinput.New()
	ti.CharLimit = 128 // Discord truncates activity fields at 128
	ti.Width = modalWidth - 2
	ti.Prompt = "› "
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return InputModal{input: ti}
}

// Show opens the modal prefilled with value
func (m *InputModal) Show(title, placeholder, value string) {
	m.visible = true
	m.title = title
	m.hint = ""
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

// SetHint shows a dim line under the input
func (m *InputModal) SetHint(hint string) {
	m.hint = hint
}

func (m *InputModal) Hide() {
	m.visible = false
	m.input.Blur()
}

func (m InputModal) IsVisible() bool {
	return m.visible
}

// Value returns the trimmed input
func (m InputModal) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// Update handles input events, returns (modal, cmd, submitted)
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			m.Hide()
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

func (m InputModal) View() string {
	if !m.visible {
		return ""
	}

	line := lipgloss.NewStyle().
		Width(modalWidth).
		Background(styles.SlateDark)

	rows := []string{
		line.Inherit(styles.ModalTitleStyle).Render(m.title),
		line.Render(m.input.View()),
	}
	if m.hint != "" {
		rows = append(rows, line.Inherit(styles.DimStyle).Render(m.hint))
	}
	rows = append(rows, line.Inherit(styles.DimStyle).Render("enter save · esc cancel"))

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
