package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	NintendoRed = lipgloss.Color("#E60012")
	SlateDark   = lipgloss.Color("#1F2937")
	SlateLight  = lipgloss.Color("#374151")
	DimGray     = lipgloss.Color("#6B7280")
	LightGray   = lipgloss.Color("#9CA3AF")
	White       = lipgloss.Color("#F9FAFB")
	Green       = lipgloss.Color("#10B981")
	Red         = lipgloss.Color("#EF4444")
	Amber       = lipgloss.Color("#F59E0B")
	Purple      = lipgloss.Color("#8B5CF6")
)

// Accent is the theme color, NintendoRed unless ui.accent_color overrides it
var Accent = NintendoRed

// Borders
var (
	ActiveBorder   lipgloss.Style
	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle lipgloss.Style

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Amber)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Header, console tabs and banner
var (
	HeaderStyle lipgloss.Style

	TabStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateDark).
			Padding(0, 2)

	ActiveTabStyle lipgloss.Style

	BannerStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Red).
			Bold(true).
			Padding(0, 1)
)

// Modal and help styles
var (
	ModalStyle lipgloss.Style

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)

	HelpKeyStyle lipgloss.Style

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Badges
var (
	BadgeStyle lipgloss.Style

	DimBadgeStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateLight).
			Padding(0, 1)
)

// Filter and spinner
var (
	SpinnerStyle      lipgloss.Style
	FilterPromptStyle lipgloss.Style
)

// Pin marker shown next to pinned titles
const PinChar = "★"

func init() {
	SetAccent(NintendoRed)
}

// SetAccent rebuilds the accent-colored styles. Call before the program starts.
func SetAccent(c lipgloss.Color) {
	Accent = c

	ActiveBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent)

	AccentStyle = lipgloss.NewStyle().Foreground(Accent)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(White).
		Background(Accent).
		Bold(true).
		Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
		Foreground(White).
		Background(Accent).
		Bold(true).
		Padding(0, 2)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(1, 2).
		Background(SlateDark)

	HelpKeyStyle = lipgloss.NewStyle().Foreground(Accent)

	BadgeStyle = lipgloss.NewStyle().
		Foreground(White).
		Background(Accent).
		Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().Foreground(Accent)

	FilterPromptStyle = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
}

// Helper functions

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// RenderListRow renders a list row, filling the width with the selection
// background so ANSI resets between parts don't leave gaps.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	bg := SlateLight

	var result string
	visibleLen := 0

	for _, part := range parts {
		style := lipgloss.NewStyle()
		switch {
		case part.Foreground != nil:
			style = style.Foreground(*part.Foreground)
		case selected:
			style = style.Foreground(White)
		default:
			style = style.Foreground(LightGray)
		}
		if selected {
			style = style.Background(bg)
		}
		result += style.Render(part.Text)
		visibleLen += lipgloss.Width(part.Text)
	}

	// 2 for the margins
	if pad := width - visibleLen - 2; pad > 0 {
		padStyle := lipgloss.NewStyle()
		if selected {
			padStyle = padStyle.Background(bg)
		}
		result += padStyle.Render(spaces(pad))
	}

	marginStyle := lipgloss.NewStyle()
	if selected {
		marginStyle = marginStyle.Background(bg)
	}
	margin := marginStyle.Render(" ")

	return margin + result + margin
}

// RowPart is a piece of a list row with an optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
