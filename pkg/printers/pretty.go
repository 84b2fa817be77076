package printers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/daily/pkg/app"
	"tableflip.dev/daily/pkg/bullet"
	"tableflip.dev/daily/pkg/report"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " report")
	default:
		_, _ = c.Fprintln(pp.out(), " reports")
	}
}

// Report prints the full text of e, with its id above it when ShowID is set.
func (pp *PrettyPrint) Report(e *report.Entry) {
	if e == nil {
		return
	}
	if pp.ShowID && e.ID != "" {
		y := color.New(color.FgHiYellow, color.Italic, color.Faint)
		_, _ = y.Fprintln(pp.out(), e.ID)
	}
	_, _ = fmt.Fprint(pp.out(), e.FullText)
	if !strings.HasSuffix(e.FullText, "\n") {
		pp.NewLine()
	}
}

// History prints one row per entry. The # column is the position Lookup
// accepts.
func (pp *PrettyPrint) History(entries ...*report.Entry) {
	pp.TitleWithCount("History", len(entries))
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	if pp.ShowID {
		tbl.AddRow("#", "DATE", "USER", "DEPT", "ITEMS", "ID")
	} else {
		tbl.AddRow("#", "DATE", "USER", "DEPT", "ITEMS")
	}
	for i, e := range entries {
		items := 0
		for _, key := range e.Order {
			items += bullet.Count(e.Section(key))
		}
		row := []interface{}{strconv.Itoa(i + 1), e.Date, e.User, e.Dept, items}
		if pp.ShowID {
			row = append(row, e.ID)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Suggestions prints advice as a bulleted list.
func (pp *PrettyPrint) Suggestions(tips []string) {
	pp.Title("Suggestions")
	c := color.New(color.FgCyan)
	for _, tip := range tips {
		_, _ = c.Fprint(pp.out(), "• ")
		_, _ = fmt.Fprintln(pp.out(), tip)
	}
	pp.NewLine()
}

// Template prints the sections in order.
func (pp *PrettyPrint) Template(t report.Template) {
	pp.Title("Template")
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("KEY", "TITLE")
	for _, s := range t {
		tbl.AddRow(s.Key, s.Title)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Stats prints totals and a per-user breakdown.
func (pp *PrettyPrint) Stats(s app.StatsResult) {
	pp.Title("Stats")
	b := color.New(color.Bold)
	_, _ = b.Fprintf(pp.out(), "reports: %d  items: %d\n", s.Reports, s.Items)
	if len(s.Users) == 0 {
		pp.NewLine()
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("USER", "DEPT", "REPORTS", "ITEMS")
	for _, u := range s.Users {
		tbl.AddRow(u.User, u.Dept, u.Reports, u.Items)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}
