package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/daily/pkg/report"
)

func TestTemplateDefaultsToVariant(t *testing.T) {
	p := load(t, testConfig{})
	assert.Equal(t, report.DefaultTemplate(report.VariantFull), p.Template())

	p = load(t, testConfig{variant: report.VariantBasic})
	assert.Equal(t, report.DefaultTemplate(report.VariantBasic), p.Template())
}

func TestTemplateSaveAndReset(t *testing.T) {
	p := load(t, testConfig{})
	custom := report.Template{
		{Title: "今日", Key: report.KeyToday},
		{Title: "备注", Key: "notes"},
	}
	require.NoError(t, p.SaveTemplate(custom))
	assert.Equal(t, custom, p.Template())

	require.NoError(t, p.ResetTemplate())
	assert.Equal(t, report.DefaultTemplate(report.VariantFull), p.Template())
	assert.NoError(t, p.ResetTemplate(), "reset without a saved template is fine")
}

func TestSaveTemplateRejectsInvalid(t *testing.T) {
	p := load(t, testConfig{})
	err := p.SaveTemplate(report.Template{{Title: "a", Key: "x"}, {Title: "b", Key: "x"}})
	assert.True(t, errors.Is(err, report.ErrInvalidTemplate))
}

func TestTemplateRepairsOnLoad(t *testing.T) {
	base := t.TempDir()
	p := load(t, testConfig{path: base})

	require.NoError(t, os.WriteFile(filepath.Join(base, templateFile),
		[]byte(`[{"title":"今日","key":"today_work"},{"title":"dup","key":"today_work"},{"title":"","key":"notes"}]`), 0o644))
	assert.Equal(t, report.Template{
		{Title: "今日", Key: report.KeyToday},
		{Title: "notes", Key: "notes"},
	}, p.Template())

	require.NoError(t, os.WriteFile(filepath.Join(base, templateFile), []byte(`garbage`), 0o644))
	assert.Equal(t, report.DefaultTemplate(report.VariantFull), p.Template())
}
