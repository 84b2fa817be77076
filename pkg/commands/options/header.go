package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daily/pkg/report"
)

// HeaderOptions carries the identity fields of a report. Empty values fall
// back to the cached form.
type HeaderOptions struct {
	User string
	Dept string
	Date string
}

func AddHeaderArgs(cmd *cobra.Command, o *HeaderOptions) {
	cmd.Flags().StringVarP(&o.User, "user", "u", "",
		"Name of the person reporting.")
	cmd.Flags().StringVarP(&o.Dept, "dept", "d", "",
		"Department of the person reporting.")
	cmd.Flags().StringVar(&o.Date, "date", "",
		`Report date, example: --date=2024-05-19, --date=yesterday or --date=-1d.`)
}

// Apply overlays the flags that were set onto h.
func (o *HeaderOptions) Apply(h report.Header) report.Header {
	if o.User != "" {
		h.User = o.User
	}
	if o.Dept != "" {
		h.Dept = o.Dept
	}
	if o.Date != "" {
		h.Date = o.Date
	}
	return h
}
