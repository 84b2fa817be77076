package teaui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"tableflip.dev/daily/pkg/app"
	"tableflip.dev/daily/pkg/report"
	"tableflip.dev/daily/pkg/store"
)

var fixedNow = time.Date(2024, time.May, 19, 18, 0, 0, 0, time.Local)

func newTestService(t *testing.T) *app.Service {
	t.Helper()
	p, err := store.Load(&store.FileConfig{Path: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return &app.Service{Persistence: p, Now: func() time.Time { return fixedNow }}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return out, cmd
}

func TestFocusCycles(t *testing.T) {
	m := New(nil)
	if m.focus != fieldUser {
		t.Fatalf("expected focus on user, got %d", m.focus)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldDept {
		t.Fatalf("expected focus on dept, got %d", m.focus)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if want := headerFields + len(m.tmpl) - 1; m.focus != want {
		t.Fatalf("expected focus to wrap to %d, got %d", want, m.focus)
	}
}

func TestTypingFillsHeader(t *testing.T) {
	m := New(nil)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("王五")})
	if got := m.Form().User; got != "王五" {
		t.Fatalf("expected typed user, got %q", got)
	}
}

func TestLoadFormPrefillsDate(t *testing.T) {
	m := New(newTestService(t))
	msg := m.loadForm()()
	if _, ok := msg.(formLoadedMsg); !ok {
		t.Fatalf("expected formLoadedMsg, got %T", msg)
	}
	m, _ = update(t, m, msg)
	if got := m.Form().Date; got != "2024-05-19" {
		t.Fatalf("expected today's date, got %q", got)
	}
}

func TestGenerateShowsPreviewAndCounts(t *testing.T) {
	svc := newTestService(t)
	m := New(svc)
	m.setForm(report.Form{
		Header: report.Header{User: "张三", Dept: "研发", Date: "2024-05-19"},
		Fields: map[string]string{report.KeyToday: "修复登录问题", report.KeyTomorrow: "写文档"},
	})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatalf("expected generate command")
	}
	msg := cmd()
	gen, ok := msg.(generatedMsg)
	if !ok {
		t.Fatalf("expected generatedMsg, got %#v", msg)
	}
	if gen.entry.ID != "张三_研发_2024-05-19" {
		t.Fatalf("unexpected id %q", gen.entry.ID)
	}

	m, cmd = update(t, m, gen)
	if cmd == nil {
		t.Fatalf("expected history count command")
	}
	if count, ok := cmd().(historyCountMsg); !ok || count.n != 1 {
		t.Fatalf("expected one stored report, got %#v", count)
	}
	view := m.View()
	if !strings.Contains(view, "a. 修复登录问题") {
		t.Fatalf("expected report in preview, got:\n%s", view)
	}
	if !strings.Contains(m.bar.Status(), "张三_研发_2024-05-19") {
		t.Fatalf("unexpected status %q", m.bar.Status())
	}
}

func TestValidationErrorFocusesField(t *testing.T) {
	svc := newTestService(t)
	m := New(svc)
	m.setForm(report.Form{Header: report.Header{Dept: "研发", Date: "2024-05-19"}})
	m.setFocus(headerFields)

	msg := m.generate()()
	em, ok := msg.(errMsg)
	if !ok {
		t.Fatalf("expected errMsg, got %T", msg)
	}
	var verr *report.ValidationError
	if !errors.As(em.err, &verr) {
		t.Fatalf("expected validation error, got %v", em.err)
	}
	m, _ = update(t, m, em)
	if m.focus != fieldUser {
		t.Fatalf("expected focus on user, got %d", m.focus)
	}
	if m.bar.Status() == "" {
		t.Fatalf("expected error in status bar")
	}
	if all, _ := svc.History(m.ctx); len(all) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(all))
	}
}

func TestTemplateChangeKeepsTypedText(t *testing.T) {
	m := New(nil)
	m.setForm(report.Form{Fields: map[string]string{report.KeyToday: "开会", report.KeyProblems: "无"}})

	m, _ = update(t, m, templateLoadedMsg{tmpl: report.DefaultTemplate(report.VariantBasic)})
	if len(m.areas) != 2 {
		t.Fatalf("expected two sections, got %d", len(m.areas))
	}
	f := m.Form()
	if f.Field(report.KeyToday) != "开会" {
		t.Fatalf("expected typed today text to survive, got %q", f.Field(report.KeyToday))
	}
	if _, ok := f.Fields[report.KeyProblems]; ok {
		t.Fatalf("expected problems section to be gone")
	}
}

func TestCopyWithoutReport(t *testing.T) {
	m := New(nil)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if cmd != nil {
		t.Fatalf("expected no command")
	}
	if !strings.Contains(m.bar.Status(), "nothing generated") {
		t.Fatalf("unexpected status %q", m.bar.Status())
	}
}

func TestQuitSavesForm(t *testing.T) {
	svc := newTestService(t)
	m := New(svc)
	m.setForm(report.Form{Header: report.Header{User: "张三", Dept: "研发"}})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after quit")
	}
	if got := svc.Persistence.Form().User; got != "张三" {
		t.Fatalf("expected cached user, got %q", got)
	}
}

func TestViewLayout(t *testing.T) {
	m := New(nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	wide := m.View()
	if !strings.Contains(wide, "日报") || !strings.Contains(wide, "ctrl+s generate") {
		t.Fatalf("unexpected view:\n%s", wide)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 40})
	narrow := m.View()
	if strings.Count(narrow, "\n") <= strings.Count(wide, "\n") {
		t.Fatalf("expected stacked layout to be taller")
	}
}

func TestHelpToggle(t *testing.T) {
	m := New(nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF1})
	if !m.showHelp {
		t.Fatalf("expected help to be shown")
	}
	if !strings.Contains(m.View(), "ctrl+y") {
		t.Fatalf("expected key help in view")
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp || cmd != nil {
		t.Fatalf("expected esc to close help without quitting")
	}
}

// formCacheFails stores everything except the form cache.
type formCacheFails struct {
	store.Persistence
}

func (formCacheFails) SaveForm(report.Form) error {
	return errors.New("disk full")
}

func TestQuitReportsFormCacheFailure(t *testing.T) {
	svc := newTestService(t)
	core, logs := observer.New(zap.WarnLevel)
	svc.Persistence = formCacheFails{svc.Persistence}
	svc.Logger = zap.New(core)

	m := New(svc)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit")
	}
	if err := m.Err(); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected cache failure, got %v", err)
	}
	if n := logs.FilterMessage("cannot cache form on quit").Len(); n != 1 {
		t.Fatalf("expected one warning, got %d", n)
	}
}

func TestQuitKeepsImportedID(t *testing.T) {
	svc := newTestService(t)
	m := New(svc)
	m.setForm(report.Form{Header: report.Header{User: "张三", Dept: "研发", Date: "2024-05-10"}, Imported: "张三_研发_2024-05-10"})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if err := m.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := svc.Persistence.Form()
	if got.User != "张三" || got.Imported != "张三_研发_2024-05-10" {
		t.Fatalf("unexpected cached form %+v", got)
	}
}
