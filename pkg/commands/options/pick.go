package options

import (
	"github.com/spf13/cobra"
)

// PickOptions lets a parent command offer its subcommands in a searchable
// list instead of printing help.
type PickOptions struct {
	Pick bool
}

func AddPickArg(cmd *cobra.Command, o *PickOptions) {
	cmd.Flags().BoolVarP(&o.Pick, "interactive", "i", false,
		"Pick a command from a searchable list and run it.")
}

// Run prints help for cmd, or, with --interactive, runs the subcommand
// returned by pick in cmd's context.
func (o *PickOptions) Run(cmd *cobra.Command, pick func(*cobra.Command) (*cobra.Command, error)) error {
	if !o.Pick {
		return cmd.Help()
	}
	next, err := pick(cmd)
	if err != nil {
		return err
	}
	next.SetContext(cmd.Context())
	switch {
	case next.RunE != nil:
		return next.RunE(next, nil)
	case next.Run != nil:
		next.Run(next, nil)
		return nil
	}
	return next.Help()
}
