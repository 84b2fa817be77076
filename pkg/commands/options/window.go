package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/daily/pkg/timeutil"
)

// WindowOptions bounds a query by report date.
type WindowOptions struct {
	Last  string
	Since string
	Until string
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions) {
	cmd.Flags().StringVar(&o.Last, "last", "",
		"Only include reports from the last window, example: --last=1w, --last=30d or --last=1m.")
	cmd.Flags().StringVar(&o.Since, "since", "",
		"Only include reports on or after this date.")
	cmd.Flags().StringVar(&o.Until, "until", "",
		"Only include reports on or before this date.")
}

// Bounds resolves the flags against now. Both bounds are zero when no flag
// was given.
func (o *WindowOptions) Bounds(now time.Time) (since, until time.Time, err error) {
	if o.Last != "" {
		w, err := timeutil.ParseWindow(o.Last)
		if err != nil {
			return since, until, err
		}
		since, until = w.Before(now), now
	}
	if o.Since != "" {
		if since, err = parseDay(o.Since, now); err != nil {
			return since, until, err
		}
	}
	if o.Until != "" {
		if until, err = parseDay(o.Until, now); err != nil {
			return since, until, err
		}
	}
	if !since.IsZero() && until.IsZero() {
		until = now
	}
	return since, until, nil
}

func parseDay(raw string, now time.Time) (time.Time, error) {
	iso, err := timeutil.ParseDate(raw, now)
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation(timeutil.LayoutISO, iso, now.Location())
}
