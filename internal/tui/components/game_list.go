package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nsrpc/nsrpc/internal/domain"
	"github.com/nsrpc/nsrpc/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Layout constants for the list
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// "↑ more" and "↓ more" each take 1 line
	ScrollIndicatorLines = 2
)

// GameList is a scrollable, filterable list of titles
type GameList struct {
	titles []domain.Title

	pins     []string
	selected string // name of the session selection, marked in the list

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title   string
	loading bool
	spinner string // current spinner frame, rendered while loading
	empty   string // message when there is nothing to show

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into titles
}

// NewGameList creates an empty list
func NewGameList(title string) GameList {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.PromptStyle = styles.FilterPromptStyle
	ti.Placeholder = "filter games"
	ti.PlaceholderStyle = styles.DimStyle
	ti.CharLimit = 64

	return GameList{
		title:       title,
		focused:     true,
		empty:       "No games",
		filterInput: ti,
	}
}

// SetTitles replaces the list contents. The cursor stays on the same
// title when it is still present.
func (l *GameList) SetTitles(titles []domain.Title) {
	var current string
	if t, ok := l.CursorTitle(); ok {
		current = t.Name
	}

	l.titles = titles
	if l.filterActive {
		l.applyFilter()
	}

	l.cursor = 0
	if current != "" {
		for i := 0; i < l.ItemCount(); i++ {
			if l.titles[l.mapIndex(i)].Name == current {
				l.cursor = i
				break
			}
		}
	}
	if l.cursor == 0 {
		l.offset = 0
	}
	l.ensureVisible()
}

// Titles returns the unfiltered list contents
func (l GameList) Titles() []domain.Title {
	return l.titles
}

// SetPins sets which names are shown with the pin marker
func (l *GameList) SetPins(pins []string) {
	l.pins = pins
}

// SetSelected marks name as the active selection
func (l *GameList) SetSelected(name string) {
	l.selected = name
}

func (l *GameList) SetTitle(title string) {
	l.title = title
}

func (l *GameList) SetEmptyMessage(msg string) {
	l.empty = msg
}

// SetLoading shows frame as a spinner in the header while loading
func (l *GameList) SetLoading(loading bool, frame string) {
	l.loading = loading
	l.spinner = frame
}

func (l *GameList) SetFocused(focused bool) {
	l.focused = focused
}

func (l *GameList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

// CursorTitle returns the title under the cursor
func (l GameList) CursorTitle() (domain.Title, bool) {
	count := l.ItemCount()
	if count == 0 || l.cursor >= count {
		return domain.Title{}, false
	}
	return l.titles[l.mapIndex(l.cursor)], true
}

// ItemCount returns the number of rows after filtering
func (l GameList) ItemCount() int {
	if l.filteredIdx != nil {
		return len(l.filteredIdx)
	}
	return len(l.titles)
}

// ToggleFilter activates the filter input
func (l *GameList) ToggleFilter() {
	l.filterActive = true
	l.filterInput.Focus()
	l.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (l GameList) IsFiltering() bool {
	return l.filterActive
}

// IsFilterTyping returns true if the filter input has focus
func (l GameList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

func (l *GameList) ClearFilter() {
	l.clearFilter()
}

func (l GameList) Update(msg tea.Msg) (GameList, tea.Cmd) {
	if !l.focused {
		return l, nil
	}

	// Typing into the filter
	if l.IsFilterTyping() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, ListKeys.Escape):
				l.clearFilter()
				return l, nil
			case key.Matches(msg, ListKeys.Enter):
				l.filterInput.Blur()
				return l, nil
			case msg.String() == "backspace" && l.filterInput.Value() == "":
				l.clearFilter()
				return l, nil
			}
		}

		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		l.applyFilter()
		return l, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	// Filter applied, input blurred
	if l.filterActive {
		switch {
		case key.Matches(keyMsg, ListKeys.Escape):
			l.clearFilter()
			return l, nil
		case key.Matches(keyMsg, ListKeys.Filter):
			l.filterInput.Focus()
			return l, nil
		}
	}

	count := l.ItemCount()
	if count == 0 {
		return l, nil
	}

	switch {
	case key.Matches(keyMsg, ListKeys.Down):
		if l.cursor < count-1 {
			l.cursor++
			l.ensureVisible()
		}
	case key.Matches(keyMsg, ListKeys.Up):
		if l.cursor > 0 {
			l.cursor--
			l.ensureVisible()
		}
	case key.Matches(keyMsg, ListKeys.Home):
		l.cursor = 0
		l.offset = 0
	case key.Matches(keyMsg, ListKeys.End):
		l.cursor = count - 1
		l.ensureVisible()
	case key.Matches(keyMsg, ListKeys.HalfDown):
		l.cursor = min(l.cursor+max(l.maxVisible/2, 1), count-1)
		l.ensureVisible()
	case key.Matches(keyMsg, ListKeys.HalfUp):
		l.cursor = max(l.cursor-max(l.maxVisible/2, 1), 0)
		l.ensureVisible()
	}

	return l, nil
}

func (l GameList) View() string {
	style := styles.InactiveBorder
	if l.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(l.width-frameW, 0)).
		Height(max(l.height-frameH, 0)).
		Render(l.renderContent())
}

// Internal methods

func (l *GameList) recalcMaxVisible() {
	// title line plus scroll indicators
	l.maxVisible = l.height - BorderHeight - ScrollIndicatorLines - 1
	if l.filterActive {
		l.maxVisible--
	}
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
}

func (l *GameList) ensureVisible() {
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}

func (l *GameList) clearFilter() {
	l.filterActive = false
	l.filterQuery = ""
	l.filteredIdx = nil
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.recalcMaxVisible()
}

func (l *GameList) applyFilter() {
	query := l.filterInput.Value()
	l.filterQuery = query
	l.filteredIdx = filterTitles(l.titles, query)

	l.cursor = 0
	l.offset = 0
}

// filterTitles returns indices of titles matching query, best match first.
// nil means no filter.
func filterTitles(titles []domain.Title, query string) []int {
	if query == "" {
		return nil
	}

	lower := make([]string, len(titles))
	for i, t := range titles {
		lower[i] = strings.ToLower(t.Name)
	}

	matches := fuzzy.Find(strings.ToLower(query), lower)
	idx := make([]int, len(matches))
	for i, match := range matches {
		idx[i] = match.Index
	}
	return idx
}

func (l GameList) mapIndex(i int) int {
	if l.filteredIdx != nil && i < len(l.filteredIdx) {
		return l.filteredIdx[i]
	}
	return i
}

// Rendering

func (l GameList) renderContent() string {
	itemWidth := max(l.width-BorderWidth, 10)

	header := l.title
	if l.loading {
		header = l.spinner + " " + header
	}
	titleLine := styles.AccentStyle.Render(styles.Truncate(header, itemWidth))

	count := l.ItemCount()
	if count == 0 {
		msg := l.empty
		if l.filterActive && l.filterQuery != "" {
			msg = "No matches"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(msg) + "\n "
		if l.filterActive {
			content += "\n" + l.filterInput.View()
		}
		return content
	}

	end := min(l.offset+l.maxVisible, count)
	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderItem(l.titles[l.mapIndex(i)], i == l.cursor && l.focused, itemWidth))
	}

	// Indicator lines are always reserved so the layout doesn't shift
	up := " "
	if l.offset > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	down := " "
	if end < count {
		down = styles.DimStyle.Render("↓ more")
	}
	if l.filteredIdx != nil {
		down += styles.DimStyle.Render(fmt.Sprintf("  %d/%d", count, len(l.titles)))
	}

	content := titleLine + "\n" + up + "\n" + strings.Join(lines, "\n") + "\n" + down
	if l.filterActive {
		content += "\n" + l.filterInput.View()
	}
	return content
}

func (l GameList) renderItem(t domain.Title, cursor bool, width int) string {
	marker, markerFg := " ", styles.DimGray
	if t.Name == l.selected {
		marker, markerFg = "●", styles.Accent
	}

	pin, pinFg := " ", styles.DimGray
	if slices.Contains(l.pins, t.Name) {
		pin, pinFg = styles.PinChar, styles.Amber
	}

	// marker, pin, two spaces and the margins
	name := styles.Truncate(t.Name, max(width-6, 5))

	parts := []styles.RowPart{
		{Text: marker, Foreground: &markerFg},
		{Text: pin, Foreground: &pinFg},
		{Text: " " + name},
	}
	return styles.RenderListRow(parts, cursor, width)
}
