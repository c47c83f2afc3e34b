package tui

import "runtime"

// Layout proportions
const (
	ListColumnPercent = 55 // game list, the rest is the presence card
	MinColumnWidth    = 24

	// Header, console tabs and footer each take one line
	ChromeHeight = 3

	// Extra header line on macOS where the terminal title bar overlaps
	macHeaderPadding = 1
)

// isHostPlatform reports whether the program runs on kind ("darwin",
// "windows", "linux").
func isHostPlatform(kind string) bool {
	return runtime.GOOS == kind
}

// columnLayout holds calculated widths for the body
type columnLayout struct {
	listWidth int
	cardWidth int // 0 when the window is too narrow for the card
}

func calculateLayout(width int) columnLayout {
	if width < 2*MinColumnWidth {
		return columnLayout{listWidth: width}
	}
	list := max(width*ListColumnPercent/100, MinColumnWidth)
	return columnLayout{listWidth: list, cardWidth: width - list}
}

// headerPadding is the number of blank lines above the header
func (m Model) headerPadding() int {
	if m.macPadding {
		return macHeaderPadding
	}
	return 0
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	bodyHeight := m.Height - ChromeHeight - m.headerPadding()
	if m.bannerVisible() {
		bodyHeight--
	}
	layout := calculateLayout(m.Width)
	m.List.SetSize(layout.listWidth, max(bodyHeight, 3))
}
