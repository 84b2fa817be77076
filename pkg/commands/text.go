package commands

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/daily/pkg/commands/options"
	"tableflip.dev/daily/pkg/runner/text"
)

// textArg joins args into one block of text, or reads stdin when there are
// none or the only arg is "-".
func textArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(b), "\n"), nil
	}
	return strings.Join(args, "\n"), nil
}

func addNormalize(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "normalize [line...]",
		Short: "Number lines the way report sections are numbered.",
		Example: `
daily normalize "修复登录问题" "评审代码"
pbpaste | daily normalize
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			t, err := textArg(cmd, args)
			if err != nil {
				return err
			}
			n := text.Normalize{Text: t, Out: cmd.OutOrStdout()}
			return n.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}

func addSuggest(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "suggest [text...]",
		Short: "Suggest how to make report text more specific.",
		Example: `
daily suggest "完成任务"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			t, err := textArg(cmd, args)
			if err != nil {
				return oo.HandleError(err)
			}
			s := text.Suggest{Text: t, JSON: oo.JSON, Out: cmd.OutOrStdout()}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
