package history

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/daily/pkg/app"
	"tableflip.dev/daily/pkg/export"
	"tableflip.dev/daily/pkg/report"
	"tableflip.dev/daily/pkg/store"
)

func init() {
	color.NoColor = true
}

var now = time.Date(2024, time.May, 19, 18, 0, 0, 0, time.Local)

func seeded(t *testing.T) *app.Service {
	t.Helper()
	p, err := store.Load(&store.FileConfig{Path: t.TempDir()}, nil)
	require.NoError(t, err)
	svc := &app.Service{Persistence: p, Now: func() time.Time { return now }}
	for _, date := range []string{"2024-05-01", "2024-05-18", "2024-05-19"} {
		_, err := svc.Generate(context.Background(), report.Form{
			Header: report.Header{User: "张三", Dept: "研发", Date: date},
			Fields: map[string]string{report.KeyToday: "work " + date, report.KeyTomorrow: "plan " + date},
		})
		require.NoError(t, err)
	}
	return svc
}

func TestListWindowAndLimit(t *testing.T) {
	svc := seeded(t)
	var buf bytes.Buffer
	l := List{Service: svc, Since: now.AddDate(0, 0, -3), Until: now, Out: &buf}
	require.NoError(t, l.Do(context.Background()))
	assert.Contains(t, buf.String(), "History - 2 reports")

	buf.Reset()
	l = List{Service: svc, Limit: 1, Out: &buf}
	require.NoError(t, l.Do(context.Background()))
	assert.Contains(t, buf.String(), "History - 1 report")
}

func TestShowByIndex(t *testing.T) {
	svc := seeded(t)
	var buf bytes.Buffer
	s := Show{Service: svc, Ref: "1", Out: &buf}
	require.NoError(t, s.Do(context.Background()))
	assert.Contains(t, buf.String(), "汇报日期：2024-05-19")

	s = Show{Service: svc, Ref: "9", Out: &buf}
	assert.True(t, errors.Is(s.Do(context.Background()), app.ErrNotFound))
}

func TestDelete(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()
	var buf bytes.Buffer

	d := Delete{Service: svc, Ref: "张三_研发_2024-05-01", Confirm: func(string) bool { return false }, Out: &buf}
	require.NoError(t, d.Do(ctx))
	all, _ := svc.History(ctx)
	assert.Len(t, all, 3)

	d.Confirm = nil
	require.NoError(t, d.Do(ctx))
	all, _ = svc.History(ctx)
	assert.Len(t, all, 2)

	buf.Reset()
	require.NoError(t, d.Do(ctx), "deleting again is a no-op")
	assert.Contains(t, buf.String(), "nothing deleted")
}

func TestLastAndImport(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()
	var buf bytes.Buffer

	l := Last{Service: svc, User: "张三", Dept: "研发", Out: &buf}
	require.NoError(t, l.Do(ctx))
	assert.Equal(t, "a. plan 2024-05-19\n", buf.String())

	buf.Reset()
	i := Import{Service: svc, Ref: "张三_研发_2024-05-18", Out: &buf}
	require.NoError(t, i.Do(ctx))
	f := svc.Persistence.Form()
	assert.Equal(t, "2024-05-18", f.Date)
	assert.Equal(t, "a. work 2024-05-18", f.Field(report.KeyToday))
}

func TestExport(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()

	var buf bytes.Buffer
	e := Export{Service: svc, Refs: []string{"1"}, Format: export.FormatText, Out: &buf}
	require.NoError(t, e.Do(ctx))
	assert.Contains(t, buf.String(), "汇报日期：2024-05-19")
	assert.NotContains(t, buf.String(), "2024-05-18")

	path := filepath.Join(t.TempDir(), "all.xlsx")
	e = Export{Service: svc, Format: export.FormatXLSX, Path: path}
	require.NoError(t, e.Do(ctx))
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, fi.Size() > 0)

	e = Export{Service: svc, Format: export.FormatXLSX}
	assert.Error(t, e.Do(ctx))
}
