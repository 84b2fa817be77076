package bottombar

import (
	"fmt"
	"strings"

	"tableflip.dev/daily/pkg/runner/tea/internal/theme"
)

// Model tracks footer/help/status rendering state.
type Model struct {
	helpLine   string
	statusLine string
	isError    bool
	history    int
	styles     theme.Theme
}

// New returns a footer model with sensible defaults.
func New() Model {
	return Model{
		history: -1,
		styles:  theme.Default(),
	}
}

// SetHelp sets the contextual help line.
func (m *Model) SetHelp(help string) {
	m.helpLine = help
}

// SetStatus sets the status message to display.
func (m *Model) SetStatus(status string) {
	m.statusLine = status
	m.isError = false
}

// SetError shows err in place of the status message.
func (m *Model) SetError(err error) {
	if err == nil {
		m.SetStatus("")
		return
	}
	m.statusLine = err.Error()
	m.isError = true
}

// Status returns the current status message.
func (m Model) Status() string {
	return m.statusLine
}

// SetHistoryCount updates the stored report count. Negative hides it.
func (m *Model) SetHistoryCount(n int) {
	m.history = n
}

// View renders the footer line.
func (m Model) View() string {
	var segments []string
	if m.helpLine != "" {
		segments = append(segments, m.styles.Footer.Help.Render(m.helpLine))
	}
	if m.statusLine != "" {
		style := m.styles.Footer.Status
		if m.isError {
			style = m.styles.Error
		}
		segments = append(segments, style.Render(m.statusLine))
	}
	if m.history >= 0 {
		segments = append(segments, m.styles.Footer.History.Render(fmt.Sprintf("history %d", m.history)))
	}
	if len(segments) == 0 {
		return " "
	}
	return strings.Join(segments, " │ ")
}
