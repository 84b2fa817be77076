package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daily/pkg/report"
)

// SectionOptions carries raw section text from flags.
type SectionOptions struct {
	Today    string
	Tomorrow string
	Problems string
	Fields   map[string]string
}

func AddSectionArgs(cmd *cobra.Command, o *SectionOptions) {
	cmd.Flags().StringVarP(&o.Today, "today", "t", "",
		"Work completed today, one item per line. Use - to read stdin.")
	cmd.Flags().StringVarP(&o.Tomorrow, "tomorrow", "n", "",
		"Plan for tomorrow, one item per line.")
	cmd.Flags().StringVarP(&o.Problems, "problems", "p", "",
		"Problems or help needed.")
	cmd.Flags().StringToStringVarP(&o.Fields, "field", "f", nil,
		`Text for any template section by key, example: --field notes="call vendor".`)
}

// Apply overlays the flags that were set onto f.
func (o *SectionOptions) Apply(f report.Form) report.Form {
	for k, v := range o.Fields {
		f.SetField(k, v)
	}
	for k, v := range map[string]string{
		report.KeyToday:    o.Today,
		report.KeyTomorrow: o.Tomorrow,
		report.KeyProblems: o.Problems,
	} {
		if v != "" {
			f.SetField(k, v)
		}
	}
	return f
}

// Set reports whether any section flag was given.
func (o *SectionOptions) Set() bool {
	return o.Today != "" || o.Tomorrow != "" || o.Problems != "" || len(o.Fields) > 0
}
