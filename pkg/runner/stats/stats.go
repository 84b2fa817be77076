package stats

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/daily/pkg/app"
	"tableflip.dev/daily/pkg/printers"
)

type Stats struct {
	Service  *app.Service
	Since    time.Time
	Until    time.Time
	Calendar bool
	JSON     bool
	Out      io.Writer
}

func (n *Stats) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not compute stats, no service")
	}
	result, err := n.Service.Stats(ctx, n.Since, n.Until)
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
		return enc.Encode(result)
	}

	pp := printers.PrettyPrint{Out: n.Out}
	pp.Stats(result)
	if n.Calendar {
		all, err := n.Service.History(ctx)
		if err != nil {
			return err
		}
		on := n.Until
		if on.IsZero() {
			on = time.Now()
		}
		pp.Calendar(on, all...)
	}
	return nil
}
