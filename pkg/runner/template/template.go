package template

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/daily/pkg/app"
	"tableflip.dev/daily/pkg/printers"
	"tableflip.dev/daily/pkg/report"
)

type Show struct {
	Service *app.Service
	JSON    bool
	Out     io.Writer
}

func (n *Show) Do(_ context.Context) error {
	if n.Service == nil {
		return errors.New("can not show template, no service")
	}
	t, err := n.Service.Template()
	if err != nil {
		return err
	}
	if n.JSON {
		out := n.Out
		if out == nil {
			out = color.Output
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(t)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Template(t)
	return nil
}

// Set replaces the template with a JSON array of {"title","key"} read from
// Path, or from In when Path is "-". Paths ending in .yaml or .yml are read
// as YAML.
type Set struct {
	Service *app.Service
	Path    string
	In      io.Reader
	Out     io.Writer
}

func (n *Set) Do(_ context.Context) error {
	if n.Service == nil {
		return errors.New("can not set template, no service")
	}
	var data []byte
	var err error
	if n.Path == "-" {
		if n.In == nil {
			n.In = os.Stdin
		}
		data, err = io.ReadAll(n.In)
	} else {
		data, err = os.ReadFile(n.Path)
	}
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	parse := report.ParseTemplate
	switch strings.ToLower(filepath.Ext(n.Path)) {
	case ".yaml", ".yml":
		parse = report.ParseTemplateYAML
	}
	t, err := parse(data)
	if err != nil {
		return err
	}
	if err := n.Service.SaveTemplate(t); err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Template(t)
	return nil
}

type Reset struct {
	Service *app.Service
	Out     io.Writer
}

func (n *Reset) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not reset template, no service")
	}
	if err := n.Service.ResetTemplate(); err != nil {
		return err
	}
	show := Show{Service: n.Service, Out: n.Out}
	return show.Do(ctx)
}
