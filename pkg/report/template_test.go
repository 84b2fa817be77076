package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplateVariants(t *testing.T) {
	assert.Equal(t, []string{KeyToday, KeyTomorrow, KeyProblems}, DefaultTemplate("").Keys())
	assert.Equal(t, []string{KeyToday, KeyTomorrow, KeyProblems}, DefaultTemplate(VariantFull).Keys())
	assert.Equal(t, []string{KeyToday, KeyTomorrow}, DefaultTemplate(" BASIC ").Keys())
}

func TestTemplateRepair(t *testing.T) {
	in := Template{
		{Title: "今日", Key: KeyToday},
		{Title: "", Key: " extra "},
		{Title: "dup", Key: KeyToday},
		{Title: "no key", Key: ""},
		{Title: "bad", Key: "report"},
	}
	out, dropped := in.Repair()
	assert.Equal(t, Template{
		{Title: "今日", Key: KeyToday},
		{Title: "extra", Key: "extra"},
	}, out)
	assert.Len(t, dropped, 3)
}

func TestTemplateValidate(t *testing.T) {
	assert.NoError(t, DefaultTemplate("").Validate())
	assert.True(t, errors.Is(Template{}.Validate(), ErrInvalidTemplate))
	assert.True(t, errors.Is(Template{{Key: "a"}, {Key: "a"}}.Validate(), ErrInvalidTemplate))
}

func TestParseTemplate(t *testing.T) {
	tmpl, err := ParseTemplate([]byte(`[{"title":"今日","key":"today_work"},{"title":"其它事项","key":"other"}]`))
	require.NoError(t, err)
	assert.Equal(t, "其它事项", tmpl.Title("other"))
	assert.Equal(t, "missing", tmpl.Title("missing"))
	assert.True(t, tmpl.Has(KeyToday))
	assert.False(t, tmpl.Has(KeyTomorrow))

	_, err = ParseTemplate([]byte(`{"title":"x"}`))
	assert.True(t, errors.Is(err, ErrInvalidTemplate))
}

func TestParseTemplateYAML(t *testing.T) {
	tmpl, err := ParseTemplateYAML([]byte("- title: 今日工作\n  key: today_work\n- title: 备注\n  key: notes\n"))
	require.NoError(t, err)
	assert.Equal(t, Template{{Title: "今日工作", Key: KeyToday}, {Title: "备注", Key: "notes"}}, tmpl)

	_, err = ParseTemplateYAML([]byte("title: x"))
	assert.True(t, errors.Is(err, ErrInvalidTemplate))
}
