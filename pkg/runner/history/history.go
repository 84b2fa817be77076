package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/daily/pkg/app"
	"tableflip.dev/daily/pkg/export"
	"tableflip.dev/daily/pkg/printers"
	"tableflip.dev/daily/pkg/report"
	"tableflip.dev/daily/pkg/timeutil"
)

func output(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return color.Output
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// filter keeps entries inside [since, until] by report date. Zero bounds
// keep everything.
func filter(entries []*report.Entry, since, until time.Time) []*report.Entry {
	if since.IsZero() && until.IsZero() {
		return entries
	}
	out := make([]*report.Entry, 0, len(entries))
	for _, e := range entries {
		if timeutil.InWindow(e.Date, since, until) {
			out = append(out, e)
		}
	}
	return out
}

type List struct {
	Service *app.Service
	ShowID  bool
	JSON    bool
	Limit   int
	Since   time.Time
	Until   time.Time
	Out     io.Writer
}

func (n *List) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not list, no service")
	}
	all, err := n.Service.History(ctx)
	if err != nil {
		return err
	}
	all = filter(all, n.Since, n.Until)
	if n.Limit > 0 && len(all) > n.Limit {
		all = all[:n.Limit]
	}
	if n.JSON {
		return writeJSON(output(n.Out), all)
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.History(all...)
	return nil
}

type Show struct {
	Service *app.Service
	Ref     string
	ShowID  bool
	JSON    bool
	Out     io.Writer
}

func (n *Show) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not show, no service")
	}
	e, ok := n.Service.Lookup(ctx, n.Ref)
	if !ok {
		return fmt.Errorf("%w: %s", app.ErrNotFound, n.Ref)
	}
	if n.JSON {
		return writeJSON(output(n.Out), e)
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.Report(e)
	return nil
}

type Delete struct {
	Service *app.Service
	Ref     string
	// Confirm, when set, must return true before anything is removed.
	Confirm func(label string) bool
	Out     io.Writer
}

func (n *Delete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete, no service")
	}
	e, ok := n.Service.Lookup(ctx, n.Ref)
	if !ok {
		_, _ = fmt.Fprintf(output(n.Out), "no report matches %q, nothing deleted\n", n.Ref)
		return nil
	}
	if n.Confirm != nil && !n.Confirm(fmt.Sprintf("Delete %s", e.ID)) {
		_, _ = fmt.Fprintln(output(n.Out), "cancelled")
		return nil
	}
	id, err := n.Service.Delete(ctx, e.ID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(output(n.Out), "deleted %s\n", id)
	return nil
}

type Import struct {
	Service *app.Service
	Ref     string
	JSON    bool
	Out     io.Writer
}

func (n *Import) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not import, no service")
	}
	f, err := n.Service.Import(ctx, n.Ref)
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			return fmt.Errorf("%w: %s", err, n.Ref)
		}
		return err
	}
	if n.JSON {
		return writeJSON(output(n.Out), f)
	}
	_, _ = fmt.Fprintf(output(n.Out), "imported %s into the form\n", f.Token())
	return nil
}

// Last prints the plan that would be carried into today for a user.
type Last struct {
	Service *app.Service
	User    string
	Dept    string
	JSON    bool
	Out     io.Writer
}

func (n *Last) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not read history, no service")
	}
	plan := n.Service.Carry(ctx, n.User, n.Dept)
	if n.JSON {
		return writeJSON(output(n.Out), map[string]string{
			"user":          n.User,
			"dept":          n.Dept,
			"tomorrow_plan": plan,
		})
	}
	if plan == "" {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(output(n.Out), " none")
		return nil
	}
	_, _ = fmt.Fprintln(output(n.Out), plan)
	return nil
}

// Export writes history in one of the export formats. Refs select reports;
// none means every report in the window.
type Export struct {
	Service *app.Service
	Refs    []string
	Since   time.Time
	Until   time.Time
	Format  export.Format
	Path    string
	Out     io.Writer
}

func (n *Export) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not export, no service")
	}
	var entries []*report.Entry
	if len(n.Refs) > 0 {
		for _, ref := range n.Refs {
			e, ok := n.Service.Lookup(ctx, ref)
			if !ok {
				return fmt.Errorf("%w: %s", app.ErrNotFound, ref)
			}
			entries = append(entries, e)
		}
	} else {
		all, err := n.Service.History(ctx)
		if err != nil {
			return err
		}
		entries = filter(all, n.Since, n.Until)
	}
	tmpl, err := n.Service.Template()
	if err != nil {
		return err
	}

	if n.Path == "" || n.Path == "-" {
		if n.Format == export.FormatXLSX {
			return errors.New("xlsx export needs --output")
		}
		return export.Write(output(n.Out), n.Format, entries, tmpl)
	}

	f, err := os.Create(n.Path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := export.Write(f, n.Format, entries, tmpl); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "exported %d report(s) to %s\n", len(entries), n.Path)
	return nil
}
