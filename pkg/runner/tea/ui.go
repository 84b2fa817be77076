package teaui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"tableflip.dev/daily/pkg/app"
	"tableflip.dev/daily/pkg/export"
	"tableflip.dev/daily/pkg/logging"
	"tableflip.dev/daily/pkg/report"
	"tableflip.dev/daily/pkg/runner/tea/internal/bottombar"
	"tableflip.dev/daily/pkg/runner/tea/internal/help"
	"tableflip.dev/daily/pkg/runner/tea/internal/panel"
	"tableflip.dev/daily/pkg/runner/tea/internal/theme"
	"tableflip.dev/daily/pkg/store"
)

const (
	fieldUser = iota
	fieldDept
	fieldDate
	headerFields
)

const (
	areaHeight = 4
	// sideBySide is the terminal width from which the preview sits next to
	// the form instead of below it.
	sideBySide = 100
)

var headerLabels = [headerFields]string{"姓名", "部门", "汇报日期"}

const helpLine = "tab/shift+tab move · ctrl+s generate · ctrl+y copy · ctrl+r reload · f1 help · esc quit"

// Model contains UI state
type Model struct {
	svc *app.Service
	ctx context.Context

	tmpl   report.Template
	header [headerFields]textinput.Model
	areas  []textarea.Model
	focus  int

	// imported is the history id the form was loaded from.
	imported string

	last        *report.Entry
	suggestions []string

	events <-chan store.Event

	preview  panel.Model
	bar      bottombar.Model
	styles   theme.Theme
	help     help.Model
	showHelp bool

	termWidth  int
	termHeight int
	quitting   bool
	err        error
}

// New creates a new UI model backed by the Service.
func New(svc *app.Service) Model {
	m := Model{
		svc:     svc,
		ctx:     context.Background(),
		preview: panel.New(),
		bar:     bottombar.New(),
		styles:  theme.Default(),
	}
	for i := range m.header {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = headerLabels[i]
		ti.CharLimit = 64
		ti.Width = 16
		m.header[i] = ti
	}
	m.header[fieldDate].Placeholder = "YYYY-MM-DD"
	m.bar.SetHelp(helpLine)
	m.setTemplate(report.DefaultTemplate(report.VariantFull))
	m.setFocus(0)
	m.updatePreview()
	return m
}

// WithEvents makes the model refresh when the store reports changes.
func (m Model) WithEvents(events <-chan store.Event) Model {
	m.events = events
	return m
}

// messages
type errMsg struct{ err error }
type formLoadedMsg struct {
	form report.Form
	tmpl report.Template
}
type templateLoadedMsg struct{ tmpl report.Template }
type generatedMsg struct {
	entry *report.Entry
	tips  []string
}
type historyCountMsg struct{ n int }
type storeEventMsg struct{ ev store.Event }
type copiedMsg struct{}

// Init loads initial data
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadForm(), m.countHistory(), m.waitForEvent())
}

func (m Model) loadForm() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if svc == nil {
			return errMsg{errors.New("no service configured")}
		}
		tmpl, err := svc.Template()
		if err != nil {
			return errMsg{err}
		}
		f, err := svc.Prefill(ctx)
		if err != nil {
			return errMsg{err}
		}
		return formLoadedMsg{form: f, tmpl: tmpl}
	}
}

func (m Model) loadTemplate() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		if svc == nil {
			return nil
		}
		tmpl, err := svc.Template()
		if err != nil {
			return errMsg{err}
		}
		return templateLoadedMsg{tmpl}
	}
}

func (m Model) countHistory() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if svc == nil {
			return nil
		}
		all, err := svc.History(ctx)
		if err != nil {
			return errMsg{err}
		}
		return historyCountMsg{len(all)}
	}
}

func (m Model) waitForEvent() tea.Cmd {
	ch := m.events
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return storeEventMsg{ev}
	}
}

func (m Model) generate() tea.Cmd {
	svc, ctx, form := m.svc, m.ctx, m.Form()
	return func() tea.Msg {
		if svc == nil {
			return errMsg{errors.New("no service configured")}
		}
		e, err := svc.Generate(ctx, form)
		if err != nil {
			return errMsg{err}
		}
		return generatedMsg{entry: e, tips: svc.SuggestForm(form)}
	}
}

func copyReport(text string) tea.Cmd {
	return func() tea.Msg {
		if err := export.Copy(text); err != nil {
			return errMsg{err}
		}
		return copiedMsg{}
	}
}

// Form returns what is currently typed.
func (m Model) Form() report.Form {
	f := report.Form{
		Header: report.Header{
			User: m.header[fieldUser].Value(),
			Dept: m.header[fieldDept].Value(),
			Date: m.header[fieldDate].Value(),
		},
		Fields:   make(map[string]string, len(m.tmpl)),
		Imported: m.imported,
	}
	for i, s := range m.tmpl {
		f.Fields[s.Key] = m.areas[i].Value()
	}
	return f
}

func (m *Model) setForm(f report.Form) {
	m.header[fieldUser].SetValue(f.User)
	m.header[fieldDept].SetValue(f.Dept)
	m.header[fieldDate].SetValue(f.Date)
	m.imported = f.Imported
	for i, s := range m.tmpl {
		m.areas[i].SetValue(f.Field(s.Key))
	}
}

// setTemplate rebuilds the section editors, keeping text typed under keys
// that survive.
func (m *Model) setTemplate(t report.Template) {
	typed := make(map[string]string, len(m.areas))
	for i, s := range m.tmpl {
		typed[s.Key] = m.areas[i].Value()
	}
	m.tmpl = t
	m.areas = make([]textarea.Model, len(t))
	for i, s := range t {
		ta := textarea.New()
		ta.Placeholder = s.Title
		ta.ShowLineNumbers = false
		ta.CharLimit = 0
		ta.SetHeight(areaHeight)
		ta.SetValue(typed[s.Key])
		m.areas[i] = ta
	}
	if m.focus >= m.fieldCount() {
		m.focus = 0
	}
	m.applySizes()
	m.setFocus(m.focus)
}

func (m Model) fieldCount() int {
	return headerFields + len(m.areas)
}

func (m *Model) setFocus(i int) tea.Cmd {
	n := m.fieldCount()
	m.focus = ((i % n) + n) % n
	var cmd tea.Cmd
	for j := range m.header {
		if j == m.focus {
			cmd = m.header[j].Focus()
		} else {
			m.header[j].Blur()
		}
	}
	for j := range m.areas {
		if headerFields+j == m.focus {
			cmd = m.areas[j].Focus()
		} else {
			m.areas[j].Blur()
		}
	}
	return cmd
}

func (m *Model) formWidth() int {
	if m.termWidth >= sideBySide {
		return m.termWidth / 2
	}
	return m.termWidth
}

func (m *Model) applySizes() {
	w := m.formWidth()
	if w <= 0 {
		return
	}
	for i := range m.areas {
		m.areas[i].SetWidth(w - 2)
	}
	if m.termWidth >= sideBySide {
		m.preview.SetWidth(m.termWidth - w - 1)
	} else {
		m.preview.SetWidth(m.termWidth)
	}
}

func (m *Model) updatePreview() {
	if m.last == nil {
		m.preview.SetContent("预览", []string{"ctrl+s to generate"})
		return
	}
	lines := strings.Split(strings.TrimRight(m.last.FullText, "\n"), "\n")
	if len(m.suggestions) > 0 {
		lines = append(lines, "")
		for _, tip := range m.suggestions {
			lines = append(lines, "• "+tip)
		}
	}
	m.preview.SetContent(m.last.ID, lines)
}

// Update handles messages and keybindings
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
		if m.showHelp {
			m.help.SetSize(m.termWidth, m.termHeight-1)
		}
		return m, nil

	case formLoadedMsg:
		m.setTemplate(msg.tmpl)
		m.setForm(msg.form)
		m.bar.SetStatus("loaded " + msg.form.Date)
		return m, nil

	case templateLoadedMsg:
		m.setTemplate(msg.tmpl)
		m.bar.SetStatus("template changed")
		return m, nil

	case generatedMsg:
		m.last = msg.entry
		m.suggestions = msg.tips
		m.updatePreview()
		m.bar.SetStatus("saved " + msg.entry.ID)
		return m, m.countHistory()

	case copiedMsg:
		m.bar.SetStatus("copied to clipboard")
		return m, nil

	case historyCountMsg:
		m.bar.SetHistoryCount(msg.n)
		return m, nil

	case storeEventMsg:
		cmds = append(cmds, m.waitForEvent())
		switch msg.ev.Type {
		case store.EventHistoryChanged:
			cmds = append(cmds, m.countHistory())
		case store.EventTemplateChanged:
			cmds = append(cmds, m.loadTemplate())
		}
		return m, tea.Batch(cmds...)

	case errMsg:
		var verr *report.ValidationError
		if errors.As(msg.err, &verr) {
			m.focusField(verr.Fields)
		}
		m.bar.SetError(msg.err)
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			switch msg.String() {
			case "f1", "esc", "q":
				m.showHelp = false
				return m, nil
			case "ctrl+c":
			default:
				var cmd tea.Cmd
				m.help, cmd = m.help.Update(msg)
				return m, cmd
			}
		}
		switch msg.String() {
		case "f1":
			m.help = help.New(m.termWidth, m.termHeight-1)
			m.showHelp = true
			return m, nil
		case "ctrl+c", "esc":
			m.quitting = true
			if m.svc != nil {
				if err := m.svc.SaveForm(m.Form()); err != nil {
					logging.OrNop(m.svc.Logger).Warn("cannot cache form on quit", zap.Error(err))
					m.err = fmt.Errorf("form not saved: %w", err)
				}
			}
			return m, tea.Quit
		case "tab":
			return m, m.setFocus(m.focus + 1)
		case "shift+tab":
			return m, m.setFocus(m.focus - 1)
		case "enter":
			if m.focus < headerFields {
				return m, m.setFocus(m.focus + 1)
			}
		case "ctrl+s":
			m.bar.SetStatus("generating…")
			return m, m.generate()
		case "ctrl+y":
			if m.last == nil {
				m.bar.SetError(errors.New("nothing generated yet"))
				return m, nil
			}
			return m, copyReport(m.last.FullText)
		case "ctrl+r":
			return m, m.loadForm()
		}
	}

	var cmd tea.Cmd
	if m.focus < headerFields {
		m.header[m.focus], cmd = m.header[m.focus].Update(msg)
	} else if i := m.focus - headerFields; i < len(m.areas) {
		m.areas[i], cmd = m.areas[i].Update(msg)
	}
	return m, cmd
}

func (m *Model) focusField(fields []string) {
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "user":
		m.setFocus(fieldUser)
	case "dept":
		m.setFocus(fieldDept)
	case "date":
		m.setFocus(fieldDate)
	}
}

func (m Model) label(text string, focused bool) string {
	if focused {
		return m.styles.Focused.Render(text)
	}
	return m.styles.Blurred.Render(text)
}

// Err is the error the form was closed with, if any.
func (m Model) Err() error {
	return m.err
}

// View renders the form, the preview and the footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.help.View() + "\n" + m.bar.View()
	}

	var form []string
	form = append(form, m.styles.Title.Render("日报"))

	var header []string
	for i := range m.header {
		header = append(header, fmt.Sprintf("%s：%s", m.label(headerLabels[i], m.focus == i), m.header[i].View()))
	}
	form = append(form, strings.Join(header, "  "))

	for i, s := range m.tmpl {
		form = append(form, "", m.label(s.Title+"：", m.focus == headerFields+i), m.areas[i].View())
	}

	preview, _ := m.preview.View()

	var body string
	if m.termWidth >= sideBySide {
		body = lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(form, "\n"), " ", preview)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, strings.Join(form, "\n"), preview)
	}
	return body + "\n" + m.bar.View()
}
