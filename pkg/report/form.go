package report

import "strings"

// Form is what a presentation shell collects: the header and the raw text of
// each section, keyed by section key.
type Form struct {
	Header
	Fields map[string]string `json:"fields,omitempty"`
	// Imported is the history id the form was loaded from, if any.
	Imported string `json:"imported,omitempty"`
}

// Field returns the raw text for key.
func (f Form) Field(key string) string {
	if f.Fields == nil {
		return ""
	}
	return f.Fields[key]
}

// SetField stores raw text for key.
func (f *Form) SetField(key, value string) {
	if f.Fields == nil {
		f.Fields = make(map[string]string)
	}
	f.Fields[key] = value
}

// Empty reports whether no section has any non-blank text.
func (f Form) Empty() bool {
	for _, v := range f.Fields {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// FormFromEntry rebuilds a form from a stored entry so it can be edited and
// generated again. Formatted section text is used; it renormalizes to itself.
func FormFromEntry(e *Entry) Form {
	f := Form{Header: e.Header, Fields: make(map[string]string, len(e.Sections)), Imported: e.ID}
	for k, v := range e.Sections {
		f.Fields[k] = v
	}
	return f
}
