package commands

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/daily/pkg/commands/options"
	"tableflip.dev/daily/pkg/report"
	"tableflip.dev/daily/pkg/runner/generate"
	"tableflip.dev/daily/pkg/snake"
)

func addGenerate(topLevel *cobra.Command) {
	ho := &options.HeaderOptions{}
	so := &options.SectionOptions{}
	var (
		resume   bool
		copyText bool
		saveFile string
		tips     bool
	)

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen", "g"},
		Short:   "Compose today's report and keep it in history.",
		Long: options.Wrap80("Compose a report from the template, number each line of the " +
			"today and tomorrow sections, and store it in history. Name and department " +
			"default to the last ones used. An empty today section is filled with " +
			"yesterday's plan."),
		Example: `
daily generate -u 张三 -d 研发 -t "修复登录问题
评审代码" -n "写文档"
git log --since=midnight --format=%s | daily generate
daily generate --date=yesterday --resume --copy
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := service()
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := cmd.Context()

			cached, err := svc.Prefill(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			form := report.Form{Header: report.Header{User: cached.User, Dept: cached.Dept}}
			if resume {
				form = cached
			}

			in := cmd.InOrStdin()
			if so.Today == "-" || (!so.Set() && !resume && !terminal(in)) {
				b, err := io.ReadAll(in)
				if err != nil {
					return oo.HandleError(err)
				}
				so.Today = strings.TrimRight(string(b), "\n")
			}
			form = so.Apply(form)
			form.Header = ho.Apply(form.Header)
			if form.Date == "" {
				form.Date = svc.Today()
			}

			g := generate.Generate{
				Service:  svc,
				Form:     form,
				Copy:     copyText,
				SaveFile: saveFile,
				Suggest:  tips,
				JSON:     oo.JSON,
				Out:      cmd.OutOrStdout(),
			}
			if !oo.JSON && terminal(in) {
				g.Prompt = func(h report.Header, fields []string) (report.Header, error) {
					return snake.PromptHeader(in, cmd.OutOrStdout(), h, fields)
				}
			}
			err = g.Do(ctx)
			var verr *report.ValidationError
			if errors.As(err, &verr) && !oo.JSON {
				return errors.New(verr.Error() + " (set them with --user, --dept and --date)")
			}
			return oo.HandleError(err)
		},
	}

	options.AddHeaderArgs(cmd, ho)
	options.AddSectionArgs(cmd, so)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVar(&resume, "resume", false, "Start from the cached form, including its sections.")
	cmd.Flags().BoolVarP(&copyText, "copy", "c", false, "Copy the report to the clipboard.")
	cmd.Flags().StringVarP(&saveFile, "save-file", "o", "", "Also write the report text to this file or directory.")
	cmd.Flags().BoolVarP(&tips, "suggest", "s", false, "Print writing suggestions after the report.")

	topLevel.AddCommand(cmd)
}

// terminal reports whether r is an interactive terminal.
func terminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
