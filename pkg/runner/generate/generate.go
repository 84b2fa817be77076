package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"tableflip.dev/daily/pkg/app"
	"tableflip.dev/daily/pkg/export"
	"tableflip.dev/daily/pkg/printers"
	"tableflip.dev/daily/pkg/report"
)

// PromptFunc asks the user to fix the named header fields.
type PromptFunc func(h report.Header, fields []string) (report.Header, error)

type Generate struct {
	Service *app.Service
	Form    report.Form

	// Prompt, when set, is called on validation errors and generation is
	// retried with the returned header.
	Prompt PromptFunc

	Copy     bool
	SaveFile string
	Suggest  bool
	JSON     bool

	Out io.Writer
}

func (n *Generate) out() io.Writer {
	if n.Out != nil {
		return n.Out
	}
	return color.Output
}

func (n *Generate) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not generate, no service")
	}

	form := n.Form
	var e *report.Entry
	for {
		var err error
		e, err = n.Service.Generate(ctx, form)
		var verr *report.ValidationError
		if errors.As(err, &verr) && n.Prompt != nil {
			_, _ = color.New(color.FgRed).Fprintln(n.out(), verr.Error())
			if form.Header, err = n.Prompt(form.Header, verr.Fields); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		break
	}

	if n.JSON {
		enc := json.NewEncoder(n.out())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(e); err != nil {
			return err
		}
	} else {
		pp := printers.PrettyPrint{Out: n.out()}
		pp.Report(e)
		if n.Suggest {
			pp.NewLine()
			pp.Suggestions(n.Service.SuggestForm(form))
		}
	}

	if n.SaveFile != "" {
		path, err := Save(e, n.SaveFile)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stderr, "saved %s\n", path)
	}
	if n.Copy {
		if err := export.Copy(e.FullText); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(os.Stderr, "copied to clipboard")
	}
	return nil
}

// Save writes the full text of e to target. A directory target gets the
// default file name inside it.
func Save(e *report.Entry, target string) (string, error) {
	path := target
	if fi, err := os.Stat(target); err == nil && fi.IsDir() {
		path = filepath.Join(target, export.Filename(e))
	}
	if err := os.WriteFile(path, []byte(e.FullText), 0o644); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	return path, nil
}
