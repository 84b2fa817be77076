package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daily/pkg/commands/options"
	"tableflip.dev/daily/pkg/runner/template"
)

func addTemplate(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"tmpl"},
		Short:   "Show or change the report sections.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the sections in order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := service()
			if err != nil {
				return oo.HandleError(err)
			}
			s := template.Show{Service: svc, JSON: oo.JSON, Out: cmd.OutOrStdout()}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}
	options.AddOutputArg(show, oo)

	set := &cobra.Command{
		Use:   "set <file|->",
		Short: "Replace the template with a JSON array of {title, key} sections.",
		Example: `
daily template set sections.json
echo '[{"title":"今日工作完成情况","key":"today_work"},{"title":"明日工作计划","key":"tomorrow_plan"}]' | daily template set -
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := service()
			if err != nil {
				return err
			}
			s := template.Set{Service: svc, Path: args[0], In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
			return s.Do(cmd.Context())
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Go back to the built-in template.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := service()
			if err != nil {
				return err
			}
			r := template.Reset{Service: svc, Out: cmd.OutOrStdout()}
			return r.Do(cmd.Context())
		},
	}

	cmd.AddCommand(show, set, reset)
	topLevel.AddCommand(cmd)
}
