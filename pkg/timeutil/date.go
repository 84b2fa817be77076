package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// LayoutISO is the only date layout written to reports and history.
const LayoutISO = "2006-01-02"

var dateLayouts = []string{
	LayoutISO,
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006.1.2",
	"20060102",
}

// Today formats now as an ISO date.
func Today(now time.Time) string {
	return now.Format(LayoutISO)
}

// ParseDate resolves a user supplied date into ISO 8601 (YYYY-MM-DD).
// Besides the common numeric layouts it accepts today, yesterday, tomorrow
// and signed windows such as "-2d" or "+1w" relative to now.
func ParseDate(input string, now time.Time) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("date is empty")
	}

	switch strings.ToLower(trimmed) {
	case "today", "今天":
		return Today(now), nil
	case "yesterday", "昨天":
		return Today(now.AddDate(0, 0, -1)), nil
	case "tomorrow", "明天":
		return Today(now.AddDate(0, 0, 1)), nil
	}

	if sign := trimmed[0]; sign == '-' || sign == '+' {
		w, err := ParseWindow(trimmed[1:])
		if err != nil {
			return "", fmt.Errorf("invalid relative date %q: %w", trimmed, err)
		}
		if sign == '-' {
			return Today(w.Before(now)), nil
		}
		return Today(w.After(now)), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, now.Location()); err == nil {
			return t.Format(LayoutISO), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q (expected YYYY-MM-DD)", trimmed)
}

// InWindow reports whether the ISO date falls within [since, until] by
// calendar day. Unparsable dates are never in the window.
func InWindow(date string, since, until time.Time) bool {
	t, err := time.ParseInLocation(LayoutISO, date, since.Location())
	if err != nil {
		return false
	}
	day := Today(t)
	return day >= Today(since) && day <= Today(until)
}
