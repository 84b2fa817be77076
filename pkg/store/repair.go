package store

import (
	"errors"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"tableflip.dev/daily/pkg/report"
)

var errNotAnObject = errors.New("store: history record is not a JSON object")

// repairEntry salvages a history record that does not decode into
// report.Entry, typically because a section was hand-edited into a number,
// list or null. Scalars are kept as their text, anything else is dropped.
func repairEntry(data []byte) (*report.Entry, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("store: history record is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, errNotAnObject
	}

	e := &report.Entry{
		Report: report.Report{
			Header: report.Header{
				User: doc.Get("user").String(),
				Dept: doc.Get("dept").String(),
				Date: doc.Get("date").String(),
			},
			Sections: make(map[string]string),
			FullText: doc.Get("report").String(),
		},
	}
	if ts := doc.Get("generated").String(); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Generated = t
		}
	}
	if raw := doc.Get("raw"); raw.IsObject() {
		e.Raw = make(map[string]string)
		raw.ForEach(func(k, v gjson.Result) bool {
			if s, ok := scalar(v); ok {
				e.Raw[k.String()] = s
			}
			return true
		})
	}

	doc.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if report.IsReservedKey(key) {
			return true
		}
		if s, ok := scalar(v); ok {
			e.Sections[key] = s
		}
		return true
	})

	for _, k := range doc.Get("order").Array() {
		if _, ok := e.Sections[k.String()]; ok {
			e.Order = append(e.Order, k.String())
		}
	}
	if len(e.Order) == 0 {
		for k := range e.Sections {
			e.Order = append(e.Order, k)
		}
		sort.Strings(e.Order)
	}
	return e, nil
}

func scalar(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return v.String(), true
	default:
		return "", false
	}
}
