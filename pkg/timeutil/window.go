package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultWindow is used when a window flag is given without a value.
const DefaultWindow = "1w"

var (
	windowSegment = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+|天|周|月)`)

	// Reports are dated by calendar day, so there are no sub-day units.
	dayUnits = map[string]int{
		"d": 1, "day": 1, "days": 1, "天": 1,
		"w": 7, "wk": 7, "week": 7, "weeks": 7, "周": 7,
	}
	monthUnits = map[string]int{
		"m": 1, "mo": 1, "month": 1, "months": 1, "月": 1,
	}
)

// Window is a span of calendar days and months, such as "1w" or "1m3d".
type Window struct {
	Months int
	Days   int
}

// ParseWindow reads a compact window like "3d", "2w" or "1m1w". Segments add
// up; weeks are seven days and months follow the calendar.
func ParseWindow(input string) (Window, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		remaining = DefaultWindow
	}

	var w Window
	for remaining != "" {
		m := windowSegment.FindStringSubmatch(remaining)
		if m == nil {
			return Window{}, fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Window{}, fmt.Errorf("invalid window value %q: %w", m[1], err)
		}
		switch {
		case dayUnits[m[2]] > 0:
			w.Days += n * dayUnits[m[2]]
		case monthUnits[m[2]] > 0:
			w.Months += n * monthUnits[m[2]]
		default:
			return Window{}, fmt.Errorf("unsupported window unit %q", m[2])
		}
		remaining = remaining[len(m[0]):]
	}

	if w.Months == 0 && w.Days == 0 {
		return Window{}, fmt.Errorf("window must be at least one day")
	}
	return w, nil
}

// Before steps back from t by the window.
func (w Window) Before(t time.Time) time.Time {
	return t.AddDate(0, -w.Months, -w.Days)
}

// After steps forward from t by the window.
func (w Window) After(t time.Time) time.Time {
	return t.AddDate(0, w.Months, w.Days)
}

func (w Window) String() string {
	var b strings.Builder
	if w.Months > 0 {
		fmt.Fprintf(&b, "%dm", w.Months)
	}
	if weeks := w.Days / 7; weeks > 0 {
		fmt.Fprintf(&b, "%dw", weeks)
	}
	if days := w.Days % 7; days > 0 {
		fmt.Fprintf(&b, "%dd", days)
	}
	if b.Len() == 0 {
		return "0d"
	}
	return b.String()
}
