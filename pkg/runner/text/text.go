package text

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/daily/pkg/bullet"
	"tableflip.dev/daily/pkg/printers"
	"tableflip.dev/daily/pkg/suggest"
)

func output(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return color.Output
}

type Normalize struct {
	Text string
	Out  io.Writer
}

func (n *Normalize) Do(_ context.Context) error {
	out := bullet.Normalize(n.Text)
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(output(n.Out), out)
	return err
}

type Suggest struct {
	Text string
	JSON bool
	Out  io.Writer
}

func (n *Suggest) Do(_ context.Context) error {
	tips := suggest.Suggest(n.Text)
	if n.JSON {
		enc := json.NewEncoder(output(n.Out))
		enc.SetEscapeHTML(false)
		return enc.Encode(map[string][]string{"suggestions": tips})
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Suggestions(tips)
	return nil
}
