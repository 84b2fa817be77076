package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daily/pkg/commands/options"
	"tableflip.dev/daily/pkg/snake"
)

var (
	oo = &options.OutputOptions{}
)

func New() *cobra.Command {
	po := &options.PickOptions{}

	cmd := &cobra.Command{
		Use:   "daily",
		Short: options.Wrap80("Write, keep and look back on daily work reports."),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return po.Run(cmd, snake.PromptNext)
		},
		SilenceErrors: true,
	}
	options.AddPickArg(cmd, po)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addGenerate(topLevel)
	addNormalize(topLevel)
	addSuggest(topLevel)
	addHistory(topLevel)
	addTemplate(topLevel)
	addStats(topLevel)
	addExport(topLevel)
	addInfo(topLevel)
	addUI(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addUpgrade(topLevel)
	addCompletions(topLevel)
}
