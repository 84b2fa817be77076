package commands

import (
	"github.com/spf13/cobra"

	teaui "tableflip.dev/daily/pkg/runner/tea"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the report form in the terminal",
		Example: `
daily ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return err
			}
			i := teaui.UI{Service: svc}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
