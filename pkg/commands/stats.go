package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/daily/pkg/commands/options"
	"tableflip.dev/daily/pkg/runner/stats"
)

func addStats(topLevel *cobra.Command) {
	wo := &options.WindowOptions{}
	calendar := false

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count reports and work items per person.",
		Example: `
daily stats --last=1w
daily stats --since=2024-05-01 --calendar
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := service()
			if err != nil {
				return oo.HandleError(err)
			}
			since, until, err := wo.Bounds(time.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			s := stats.Stats{
				Service:  svc,
				Since:    since,
				Until:    until,
				Calendar: calendar,
				JSON:     oo.JSON,
				Out:      cmd.OutOrStdout(),
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}
	options.AddWindowArgs(cmd, wo)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVar(&calendar, "calendar", false, "Also print a calendar of the days that have reports.")

	topLevel.AddCommand(cmd)
}
