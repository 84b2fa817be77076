package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// Model renders a generic information panel with a title and body lines.
type Model struct {
	title      string
	lines      []string
	width      int
	frameStyle lipgloss.Style
	titleStyle lipgloss.Style
	bodyStyle  lipgloss.Style
}

// New returns a panel model with sensible defaults.
func New() Model {
	return Model{
		frameStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		titleStyle: lipgloss.NewStyle().Bold(true),
		bodyStyle:  lipgloss.NewStyle(),
	}
}

// SetContent updates the panel title and body lines.
func (m *Model) SetContent(title string, lines []string) {
	m.title = title
	m.lines = lines
}

// SetWidth sets the outer width; body lines are wrapped to fit. Zero
// disables wrapping.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// Reset clears panel content.
func (m *Model) Reset() {
	m.title = ""
	m.lines = nil
}

// View returns the rendered panel string and its total height in lines.
func (m Model) View() (string, int) {
	inner := 0
	if m.width > 0 {
		inner = m.width - m.frameStyle.GetHorizontalFrameSize()
	}
	var content []string
	if m.title != "" {
		content = append(content, m.titleStyle.Render(m.title))
	}
	for _, line := range m.lines {
		if inner > 0 {
			line = wordwrap.String(line, inner)
		}
		content = append(content, m.bodyStyle.Render(line))
	}
	style := m.frameStyle
	if inner > 0 {
		style = style.Width(m.width - m.frameStyle.GetHorizontalBorderSize())
	}
	view := style.Render(strings.Join(content, "\n"))
	height := strings.Count(view, "\n") + 1
	return view, height
}
