// Package report defines daily report records and the pure composition of a
// report from a template, header fields and raw section text.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Well-known section keys. Only these two carry meaning for composition;
// other keys are stored as opaque free text.
const (
	KeyToday    = "today_work"
	KeyTomorrow = "tomorrow_plan"
	KeyProblems = "problems"
)

// RestPlaceholder is the body used when tomorrow's plan is left empty.
const RestPlaceholder = "a. 休息"

// Header carries the identity fields of a report.
type Header struct {
	User string `json:"user"`
	Dept string `json:"dept"`
	Date string `json:"date"`
}

// Token addresses one stored report: user_dept_date.
func (h Header) Token() string {
	return Token(h.User, h.Dept, h.Date)
}

// UserKey identifies the author across days: user_dept.
func (h Header) UserKey() string {
	return UserKey(h.User, h.Dept)
}

// Token builds the composite report identifier.
func Token(user, dept, date string) string {
	return fmt.Sprintf("%s_%s_%s", user, dept, date)
}

// UserKey builds the carry-forward key for a user.
func UserKey(user, dept string) string {
	return fmt.Sprintf("%s_%s", user, dept)
}

// Report is a composed daily report.
type Report struct {
	Header
	// Order lists section keys in template order.
	Order []string
	// Sections maps section key to formatted body.
	Sections map[string]string
	// FullText is the rendered document.
	FullText string
}

// Section returns the formatted body for key.
func (r *Report) Section(key string) string {
	if r == nil || r.Sections == nil {
		return ""
	}
	return r.Sections[key]
}

// Entry is a stored report plus the raw text it was generated from.
type Entry struct {
	Report
	// ID is the storage key; equal to the token under the overwrite policy.
	ID        string
	Raw       map[string]string
	Generated time.Time
}

// Reserved names that cannot be used as section keys because they collide
// with the top-level fields of a stored entry.
var reserved = map[string]bool{
	"user":      true,
	"dept":      true,
	"date":      true,
	"report":    true,
	"generated": true,
	"order":     true,
	"raw":       true,
}

// IsReservedKey reports whether key collides with a stored entry field.
func IsReservedKey(key string) bool {
	return reserved[key]
}

// MarshalJSON writes the entry as a flat object: header fields, the full
// report under "report", and one top-level field per section key.
func (e *Entry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Sections)+7)
	for k, v := range e.Sections {
		if reserved[k] {
			continue
		}
		out[k] = v
	}
	out["user"] = e.User
	out["dept"] = e.Dept
	out["date"] = e.Date
	out["report"] = e.FullText
	if !e.Generated.IsZero() {
		out["generated"] = e.Generated.UTC().Format(time.RFC3339Nano)
	}
	if len(e.Order) > 0 {
		out["order"] = e.Order
	}
	if len(e.Raw) > 0 {
		out["raw"] = e.Raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the flat object written by MarshalJSON. Records written
// without "order" get their section keys in sorted order.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	var known struct {
		User      string            `json:"user"`
		Dept      string            `json:"dept"`
		Date      string            `json:"date"`
		Report    string            `json:"report"`
		Generated string            `json:"generated"`
		Order     []string          `json:"order"`
		Raw       map[string]string `json:"raw"`
	}
	if err := json.Unmarshal(b, &known); err != nil {
		return err
	}

	e.User, e.Dept, e.Date = known.User, known.Dept, known.Date
	e.FullText = known.Report
	e.Raw = known.Raw
	e.Order = known.Order
	e.Generated = time.Time{}
	if known.Generated != "" {
		t, err := time.Parse(time.RFC3339Nano, known.Generated)
		if err != nil {
			return fmt.Errorf("generated: %w", err)
		}
		e.Generated = t
	}

	e.Sections = make(map[string]string)
	for k, raw := range fields {
		if reserved[k] {
			continue
		}
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("section %q: %w", k, err)
		}
		e.Sections[k] = v
	}
	if len(e.Order) == 0 {
		e.Order = make([]string, 0, len(e.Sections))
		for k := range e.Sections {
			e.Order = append(e.Order, k)
		}
		sort.Strings(e.Order)
	}
	return nil
}
