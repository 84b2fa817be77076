package commands

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/daily/pkg/commands/options"
	"tableflip.dev/daily/pkg/export"
	"tableflip.dev/daily/pkg/runner/history"
)

func addExport(topLevel *cobra.Command) {
	wo := &options.WindowOptions{}
	var (
		format string
		path   string
	)

	formats := make([]string, 0, len(export.Formats))
	for _, f := range export.Formats {
		formats = append(formats, string(f))
	}

	cmd := &cobra.Command{
		Use:   "export [id|index...]",
		Short: "Write stored reports as text, JSON or a spreadsheet.",
		Example: `
daily export 1 --output report.txt
daily export --last=1w --output week.xlsx
daily export --format=json --since=2024-05-01
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := service()
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format, path)
			if err != nil {
				return err
			}
			since, until, err := wo.Bounds(time.Now())
			if err != nil {
				return err
			}
			x := history.Export{
				Service: svc,
				Refs:    args,
				Since:   since,
				Until:   until,
				Format:  f,
				Path:    path,
				Out:     cmd.OutOrStdout(),
			}
			return x.Do(cmd.Context())
		},
		ValidArgsFunction: refCompletions,
	}
	options.AddWindowArgs(cmd, wo)
	cmd.Flags().StringVar(&format, "format", "",
		"One of "+strings.Join(formats, ", ")+". Defaults to the output file extension, then text.")
	cmd.Flags().StringVarP(&path, "output", "o", "", "File to write. Standard output when empty.")

	topLevel.AddCommand(cmd)
}
