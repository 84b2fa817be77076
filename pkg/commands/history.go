package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/daily/pkg/commands/options"
	"tableflip.dev/daily/pkg/runner/history"
	"tableflip.dev/daily/pkg/snake"
)

func addHistory(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"h"},
		Short:   "Browse and manage stored reports.",
		Long: options.Wrap80("Stored reports are addressed by id (user_dept_date) or by " +
			"their 1-based position in the most recent first listing."),
		Example: `
daily history list --last=1w
daily history show 1
daily history delete 张三_研发_2024-05-19
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addHistoryList(cmd)
	addHistoryShow(cmd)
	addHistoryDelete(cmd)
	addHistoryImport(cmd)
	addHistoryLast(cmd)

	topLevel.AddCommand(cmd)
}

func addHistoryList(parent *cobra.Command) {
	io := &options.IDOptions{}
	wo := &options.WindowOptions{}
	limit := 0

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored reports, most recent first.",
		Args:    cobra.NoArgs,
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
			l := history.List{
				Service: svc,
				ShowID:  io.ShowID,
				JSON:    oo.JSON,
				Limit:   limit,
				Since:   since,
				Until:   until,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(l.Do(cmd.Context()))
		},
	}
	options.AddShowIDArgs(cmd, io)
	options.AddWindowArgs(cmd, wo)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many reports.")

	parent.AddCommand(cmd)
}

func addHistoryShow(parent *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "show <id|index>",
		Short: "Print a stored report.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := service()
			if err != nil {
				return oo.HandleError(err)
			}
			s := history.Show{Service: svc, Ref: args[0], ShowID: io.ShowID, JSON: oo.JSON, Out: cmd.OutOrStdout()}
			return oo.HandleError(s.Do(cmd.Context()))
		},
		ValidArgsFunction: refCompletions,
	}
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addHistoryDelete(parent *cobra.Command) {
	yes := false

	cmd := &cobra.Command{
		Use:     "delete <id|index>",
		Aliases: []string{"rm"},
		Short:   "Remove a stored report. Missing reports are ignored.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := service()
			if err != nil {
				return err
			}
			d := history.Delete{Service: svc, Ref: args[0], Out: cmd.OutOrStdout()}
			if !yes && terminal(cmd.InOrStdin()) {
				d.Confirm = func(label string) bool {
					return snake.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), label)
				}
			}
			return d.Do(cmd.Context())
		},
		ValidArgsFunction: refCompletions,
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation.")

	parent.AddCommand(cmd)
}

func addHistoryImport(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "import <id|index>",
		Short: "Load a stored report into the form for editing.",
		Long: options.Wrap80("Copy a stored report's header and sections into the cached " +
			"form. Run generate --resume afterwards to produce it again."),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := service()
			if err != nil {
				return oo.HandleError(err)
			}
			i := history.Import{Service: svc, Ref: args[0], JSON: oo.JSON, Out: cmd.OutOrStdout()}
			return oo.HandleError(i.Do(cmd.Context()))
		},
		ValidArgsFunction: refCompletions,
	}
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addHistoryLast(parent *cobra.Command) {
	ho := &options.HeaderOptions{}

	cmd := &cobra.Command{
		Use:   "last",
		Short: "Print the plan that will be carried into the next report.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := service()
			if err != nil {
				return oo.HandleError(err)
			}
			cached, err := svc.Prefill(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			h := ho.Apply(cached.Header)
			l := history.Last{Service: svc, User: h.User, Dept: h.Dept, JSON: oo.JSON, Out: cmd.OutOrStdout()}
			return oo.HandleError(l.Do(cmd.Context()))
		},
	}
	options.AddHeaderArgs(cmd, ho)
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}
