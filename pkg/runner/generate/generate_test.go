package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/daily/pkg/app"
	"tableflip.dev/daily/pkg/report"
	"tableflip.dev/daily/pkg/store"
)

func init() {
	color.NoColor = true
}

func service(t *testing.T) *app.Service {
	t.Helper()
	p, err := store.Load(&store.FileConfig{Path: t.TempDir()}, nil)
	require.NoError(t, err)
	return &app.Service{
		Persistence: p,
		Now:         func() time.Time { return time.Date(2024, time.May, 19, 18, 0, 0, 0, time.Local) },
	}
}

func TestGeneratePrintsReport(t *testing.T) {
	var buf bytes.Buffer
	g := Generate{
		Service: service(t),
		Form: report.Form{
			Header: report.Header{User: "张三", Dept: "研发", Date: "today"},
			Fields: map[string]string{report.KeyToday: "完成任务"},
		},
		Suggest: true,
		Out:     &buf,
	}
	require.NoError(t, g.Do(context.Background()))
	assert.Contains(t, buf.String(), "姓名：张三  部门：研发  汇报日期：2024-05-19\n")
	assert.Contains(t, buf.String(), "a. 完成任务")
	assert.Contains(t, buf.String(), "建议补充具体百分比。")
}

func TestGenerateRepromptsOnValidationError(t *testing.T) {
	var buf bytes.Buffer
	var asked []string
	g := Generate{
		Service: service(t),
		Form:    report.Form{Header: report.Header{User: "张三", Date: "2024-05-19"}},
		Prompt: func(h report.Header, fields []string) (report.Header, error) {
			asked = append(asked, fields...)
			h.Dept = "研发"
			return h, nil
		},
		JSON: true,
		Out:  &buf,
	}
	require.NoError(t, g.Do(context.Background()))
	assert.Equal(t, []string{"dept"}, asked)

	// The validation message precedes the JSON document.
	out := buf.Bytes()
	out = out[bytes.IndexByte(out, '{'):]
	var e report.Entry
	require.NoError(t, json.Unmarshal(out, &e))
	assert.Equal(t, "研发", e.Dept)
}

func TestGenerateValidationWithoutPrompt(t *testing.T) {
	g := Generate{Service: service(t), Out: &bytes.Buffer{}}
	err := g.Do(context.Background())
	var verr *report.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestSaveUsesDefaultNameInDirectory(t *testing.T) {
	dir := t.TempDir()
	e := &report.Entry{Report: report.Report{
		Header:   report.Header{User: "张三", Date: "2024-05-19"},
		FullText: "text\n",
	}}
	path, err := Save(e, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "work_report_张三_2024-05-19.txt"), path)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "text\n", string(b))

	path, err = Save(e, filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out.txt"), path)
}

func TestSaveKeepsSeparatorsInUserInsideDirectory(t *testing.T) {
	dir := t.TempDir()
	e := &report.Entry{Report: report.Report{
		Header:   report.Header{User: "../evil", Date: "2024-05-19"},
		FullText: "text\n",
	}}
	path, err := Save(e, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, "work_report_.._evil_2024-05-19.txt", filepath.Base(path))
}
