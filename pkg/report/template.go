package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTemplate is returned when a template cannot be saved as given.
var ErrInvalidTemplate = errors.New("invalid template")

// Section is one entry of a report template.
type Section struct {
	Title string `json:"title" yaml:"title"`
	Key   string `json:"key" yaml:"key"`
}

// Template is the ordered list of report sections.
type Template []Section

// Template variants.
const (
	VariantFull  = "full"
	VariantBasic = "basic"
)

// DefaultTemplate returns the built-in template for a variant. Unknown
// variants get the full template.
func DefaultTemplate(variant string) Template {
	t := Template{
		{Title: "1、今日工作完成情况", Key: KeyToday},
		{Title: "2、明日工作计划", Key: KeyTomorrow},
	}
	if strings.EqualFold(strings.TrimSpace(variant), VariantBasic) {
		return t
	}
	return append(t, Section{Title: "3、遇到的问题/需协助", Key: KeyProblems})
}

// Keys returns the section keys in order.
func (t Template) Keys() []string {
	keys := make([]string, len(t))
	for i, s := range t {
		keys[i] = s.Key
	}
	return keys
}

// Has reports whether the template contains key.
func (t Template) Has(key string) bool {
	for _, s := range t {
		if s.Key == key {
			return true
		}
	}
	return false
}

// Title returns the title for key, or the key itself.
func (t Template) Title(key string) string {
	for _, s := range t {
		if s.Key == key {
			return s.Title
		}
	}
	return key
}

// Repair drops sections that would break composition: empty or reserved
// keys and duplicates (first wins). Empty titles fall back to the key. The
// second return value lists what was dropped.
func (t Template) Repair() (Template, []string) {
	seen := make(map[string]bool, len(t))
	out := make(Template, 0, len(t))
	var dropped []string
	for i, s := range t {
		s.Key = strings.TrimSpace(s.Key)
		s.Title = strings.TrimSpace(s.Title)
		switch {
		case s.Key == "":
			dropped = append(dropped, fmt.Sprintf("#%d: empty key", i+1))
			continue
		case reserved[s.Key]:
			dropped = append(dropped, fmt.Sprintf("#%d: reserved key %q", i+1, s.Key))
			continue
		case seen[s.Key]:
			dropped = append(dropped, fmt.Sprintf("#%d: duplicate key %q", i+1, s.Key))
			continue
		}
		if s.Title == "" {
			s.Title = s.Key
		}
		seen[s.Key] = true
		out = append(out, s)
	}
	return out, dropped
}

// Validate returns ErrInvalidTemplate when Repair would change anything or
// when the template is empty.
func (t Template) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no sections", ErrInvalidTemplate)
	}
	if _, dropped := t.Repair(); len(dropped) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTemplate, strings.Join(dropped, "; "))
	}
	return nil
}

// ParseTemplate decodes a JSON array of {"title","key"} objects.
func ParseTemplate(data []byte) (Template, error) {
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	return t, nil
}

// ParseTemplateYAML decodes a YAML sequence of title/key mappings.
func ParseTemplateYAML(data []byte) (Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	return t, nil
}
