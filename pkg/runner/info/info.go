package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/daily/pkg/app"
	"tableflip.dev/daily/pkg/store"
)

type Info struct {
	Config  *store.FileConfig
	Service *app.Service
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv(store.ConfigPathEnv); override != "" {
		_, _ = fmt.Fprintln(out, store.ConfigPathEnv, "found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, store.ConfigPathEnv, "env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	source := n.Config.Source
	if source == "" {
		source = "(defaults)"
	}
	_, _ = fmt.Fprintln(out, "Config file:     ", source)
	_, _ = fmt.Fprintln(out, "Config.path:     ", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "History policy:  ", n.Config.HistoryPolicy())
	_, _ = fmt.Fprintln(out, "Template variant:", n.Config.TemplateVariant())
	_, _ = fmt.Fprintln(out, "Log level:       ", n.Config.Log.Level)

	if n.Service == nil {
		return fmt.Errorf("failed to create service")
	}

	all, err := n.Service.History(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Reports:          %d\n", len(all))
	if len(all) > 0 {
		_, _ = fmt.Fprintf(out, "Latest:           %s\n", all[0].ID)
	}

	t, err := n.Service.Template()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Sections:\n")
	for _, s := range t {
		_, _ = fmt.Fprintf(out, "  %s (%s)\n", s.Title, s.Key)
	}
	return nil
}
