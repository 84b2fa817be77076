package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/daily/pkg/report"
)

func newEntry(user, dept, date, tomorrow string) *report.Entry {
	return &report.Entry{
		Report: report.Report{
			Header:   report.Header{User: user, Dept: dept, Date: date},
			Order:    []string{report.KeyToday, report.KeyTomorrow},
			Sections: map[string]string{report.KeyToday: "a. work", report.KeyTomorrow: tomorrow},
			FullText: "full " + date,
		},
		Raw: map[string]string{report.KeyToday: "work"},
	}
}

func load(t *testing.T, cfg testConfig) Persistence {
	t.Helper()
	if cfg.path == "" {
		cfg.path = t.TempDir()
	}
	p, err := Load(cfg, nil)
	require.NoError(t, err)
	return p
}

func TestPutGetRoundTrip(t *testing.T) {
	p := load(t, testConfig{})
	ctx := context.Background()

	e := newEntry("张三", "研发/平台", "2024-05-19", "a. 写文档")
	require.NoError(t, p.Put(e))
	assert.Equal(t, "张三_研发/平台_2024-05-19", e.ID)
	assert.False(t, e.Generated.IsZero())

	got, ok := p.Get(ctx, e.ID)
	require.True(t, ok)
	assert.Equal(t, e.Report, got.Report)
	assert.Equal(t, e.Raw, got.Raw)
	assert.Equal(t, e.ID, got.ID)

	_, ok = p.Get(ctx, "nobody_x_2024-01-01")
	assert.False(t, ok)
}

func TestPutOverwritePolicyKeepsOneRecord(t *testing.T) {
	p := load(t, testConfig{})
	ctx := context.Background()

	require.NoError(t, p.Put(newEntry("a", "d", "2024-05-19", "a. one")))
	require.NoError(t, p.Put(newEntry("a", "d", "2024-05-19", "a. two")))

	all := p.List(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "a. two", all[0].Section(report.KeyTomorrow))
}

func TestPutAppendPolicyKeepsEveryRecord(t *testing.T) {
	p := load(t, testConfig{policy: PolicyAppend})
	ctx := context.Background()

	first := newEntry("a", "d", "2024-05-19", "a. one")
	second := newEntry("a", "d", "2024-05-19", "a. two")
	third := newEntry("a", "d", "2024-05-19", "a. three")
	second.Generated = time.Now().Add(time.Second)
	third.Generated = time.Now().Add(2 * time.Second)
	require.NoError(t, p.Put(first))
	require.NoError(t, p.Put(second))
	require.NoError(t, p.Put(third))

	assert.Equal(t, "a_d_2024-05-19", first.ID)
	assert.Equal(t, "a_d_2024-05-19~2", second.ID)
	assert.Equal(t, "a_d_2024-05-19~3", third.ID)

	all := p.List(ctx)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)
	assert.Equal(t, "a. three", p.LastTomorrowPlan(ctx, "a_d"))
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	p := load(t, testConfig{})
	ctx := context.Background()

	require.NoError(t, p.Put(newEntry("a", "d", "2024-05-17", "")))
	require.NoError(t, p.Put(newEntry("b", "d", "2024-05-19", "")))
	require.NoError(t, p.Put(newEntry("c", "d", "2024-05-18", "")))

	var dates []string
	for _, e := range p.List(ctx) {
		dates = append(dates, e.Date)
	}
	assert.Equal(t, []string{"2024-05-19", "2024-05-18", "2024-05-17"}, dates)
}

func TestDelete(t *testing.T) {
	p := load(t, testConfig{})
	ctx := context.Background()

	e := newEntry("a", "d", "2024-05-19", "")
	require.NoError(t, p.Put(e))
	require.NoError(t, p.Delete(e.ID))
	assert.Empty(t, p.List(ctx))

	assert.NoError(t, p.Delete(e.ID), "deleting a missing id is a no-op")
	assert.NoError(t, p.Delete(""))
}

func TestLastTomorrowPlan(t *testing.T) {
	p := load(t, testConfig{})
	ctx := context.Background()

	assert.Equal(t, "", p.LastTomorrowPlan(ctx, "a_d"))

	require.NoError(t, p.Put(newEntry("a", "d", "2024-05-18", "a. older")))
	require.NoError(t, p.Put(newEntry("a", "d", "2024-05-19", "a. newer")))
	require.NoError(t, p.Put(newEntry("b", "d", "2024-05-20", "a. someone else")))

	assert.Equal(t, "a. newer", p.LastTomorrowPlan(ctx, "a_d"))
	assert.Equal(t, "a. someone else", p.LastTomorrowPlan(ctx, "b_d"))
}

func TestListRepairsAndSkipsBadRecords(t *testing.T) {
	base := t.TempDir()
	p := load(t, testConfig{path: base})
	ctx := context.Background()

	dir := filepath.Join(base, historyDir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x_y_2024-05-01.json"),
		[]byte(`{"user":"x","dept":"y","date":"2024-05-01","report":"r","today_work":42,"tomorrow_plan":"a. go","extra":[1,2]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{not json`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte(`ignored`), 0o644))

	all := p.List(ctx)
	require.Len(t, all, 1)
	e := all[0]
	assert.Equal(t, "x_y_2024-05-01", e.ID)
	assert.Equal(t, "42", e.Section(report.KeyToday))
	assert.Equal(t, "a. go", e.Section(report.KeyTomorrow))
	assert.Equal(t, []string{report.KeyToday, report.KeyTomorrow}, e.Order)
}

func TestListReadsUnescapedFileNames(t *testing.T) {
	base := t.TempDir()
	p := load(t, testConfig{path: base})
	ctx := context.Background()

	dir := filepath.Join(base, historyDir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "张三_研发_2024-05-19.json"),
		[]byte(`{"user":"张三","dept":"研发","date":"2024-05-19","report":"r","today_work":"a. 修复","tomorrow_plan":"a. 写文档"}`), 0o644))

	all := p.List(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "张三_研发_2024-05-19", all[0].ID)

	got, ok := p.Get(ctx, "张三_研发_2024-05-19")
	require.True(t, ok)
	assert.Equal(t, "a. 修复", got.Section(report.KeyToday))
	assert.Equal(t, "a. 写文档", p.LastTomorrowPlan(ctx, "张三_研发"))

	require.NoError(t, p.Put(newEntry("张三", "研发", "2024-05-19", "a. 改")))
	assert.Len(t, p.List(ctx), 1, "overwrite hits the same file")
	require.NoError(t, p.Delete("张三_研发_2024-05-19"))
	assert.Empty(t, p.List(ctx))
}

func TestKeyEscapingRoundTrips(t *testing.T) {
	for _, key := range []string{"张三_研发_2024-05-19", "a_研发/平台_2024-05-19", `a\b_c_d`, "50%_x_y", "a_d_2024-05-19~2"} {
		pk := keyToPathTransform(key)
		assert.NotContains(t, pk.FileName, "/", key)
		assert.NotContains(t, pk.FileName, `\`, key)
		assert.Equal(t, key, pathToKeyTransform(pk), key)
	}
	assert.Equal(t, "张三_研发_2024-05-19.json", keyToPathTransform("张三_研发_2024-05-19").FileName)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyOverwrite, p)

	p, err = ParsePolicy(" Append ")
	require.NoError(t, err)
	assert.Equal(t, PolicyAppend, p)

	_, err = ParsePolicy("merge")
	assert.Error(t, err)
}

func TestLoadRequiresBasePath(t *testing.T) {
	_, err := Load(testConfig{path: " "}, nil)
	assert.Error(t, err)
}
