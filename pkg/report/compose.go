package report

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/daily/pkg/bullet"
	"tableflip.dev/daily/pkg/timeutil"
)

// ruleWidth is the width of the separator under the header line.
const ruleWidth = 52

// ValidationError lists header fields that are missing or malformed. No
// report is produced when it is returned.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	msg := "missing required field(s): " + strings.Join(e.Fields, ", ")
	if e.Reason != "" {
		msg = fmt.Sprintf("invalid %s: %s", strings.Join(e.Fields, ", "), e.Reason)
	}
	return "report: " + msg
}

// Validate trims the header fields, resolves the date to ISO form and
// returns a ValidationError if anything is missing.
func (h Header) Validate(now time.Time) (Header, error) {
	h.User = strings.TrimSpace(h.User)
	h.Dept = strings.TrimSpace(h.Dept)
	h.Date = strings.TrimSpace(h.Date)

	var missing []string
	if h.User == "" {
		missing = append(missing, "user")
	}
	if h.Dept == "" {
		missing = append(missing, "dept")
	}
	if h.Date == "" {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return h, &ValidationError{Fields: missing}
	}

	date, err := timeutil.ParseDate(h.Date, now)
	if err != nil {
		return h, &ValidationError{Fields: []string{"date"}, Reason: err.Error()}
	}
	h.Date = date
	return h, nil
}

// Compose builds a report from the template, header and raw section text.
// carry is the stored tomorrow plan for the header's user and is used when
// today's work is left empty. The result depends only on its inputs.
func Compose(header Header, raw map[string]string, tmpl Template, carry string, now time.Time) (Report, error) {
	header, err := header.Validate(now)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		Header:   header,
		Order:    make([]string, 0, len(tmpl)),
		Sections: make(map[string]string, len(tmpl)),
	}

	var b strings.Builder
	fmt.Fprintf(&b, "姓名：%s  部门：%s  汇报日期：%s\n", header.User, header.Dept, header.Date)
	b.WriteString(strings.Repeat("=", ruleWidth))
	b.WriteString("\n")

	for _, s := range tmpl {
		body := FormatSection(s.Key, raw[s.Key], carry)
		r.Order = append(r.Order, s.Key)
		r.Sections[s.Key] = body
		fmt.Fprintf(&b, "%s：\n%s\n", s.Title, body)
	}

	r.FullText = b.String()
	return r, nil
}

// FormatSection returns the formatted body of one section.
func FormatSection(key, raw, carry string) string {
	value := strings.TrimSpace(raw)
	switch key {
	case KeyToday:
		if value == "" {
			value = strings.TrimSpace(carry)
		}
		return bullet.Normalize(value)
	case KeyTomorrow:
		if value == "" {
			return RestPlaceholder
		}
		return bullet.Normalize(value)
	default:
		return value
	}
}
