package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"tableflip.dev/daily/pkg/app"
	"tableflip.dev/daily/pkg/report"
)

func init() {
	color.NoColor = true
}

func sample() *report.Entry {
	return &report.Entry{
		Report: report.Report{
			Header:   report.Header{User: "张三", Dept: "研发", Date: "2024-05-19"},
			Order:    []string{report.KeyToday, report.KeyTomorrow},
			Sections: map[string]string{report.KeyToday: "a. x\nb. y", report.KeyTomorrow: "a. z"},
			FullText: "full text\n",
		},
		ID: "张三_研发_2024-05-19",
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf, ShowID: true}
	pp.Report(sample())
	assert.Equal(t, "张三_研发_2024-05-19\nfull text\n", buf.String())
}

func TestHistory(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.History(sample())
	out := buf.String()
	assert.Contains(t, out, "History - 1 report")
	assert.Contains(t, out, "2024-05-19")
	assert.Contains(t, out, "张三")

	buf.Reset()
	pp.History()
	assert.Contains(t, buf.String(), "none")
}

func TestStats(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Stats(app.StatsResult{Reports: 2, Items: 5, Users: []app.UserStat{{User: "a", Dept: "d", Reports: 2, Items: 5}}})
	assert.Contains(t, buf.String(), "reports: 2  items: 5")
	assert.Contains(t, buf.String(), "USER")
}

func TestCalendar(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Calendar(time.Date(2024, time.May, 10, 0, 0, 0, 0, time.Local), sample())
	lines := strings.Split(buf.String(), "\n")
	assert.Contains(t, lines[0], "May")
	assert.Contains(t, buf.String(), "31")
}
