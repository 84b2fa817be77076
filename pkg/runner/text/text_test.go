package text

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/daily/pkg/suggest"
)

func TestNormalize(t *testing.T) {
	var buf bytes.Buffer
	n := Normalize{Text: "x\n\n a. y \nz", Out: &buf}
	require.NoError(t, n.Do(context.Background()))
	assert.Equal(t, "a. x\na. y\nc. z\n", buf.String())

	buf.Reset()
	n = Normalize{Text: " \n ", Out: &buf}
	require.NoError(t, n.Do(context.Background()))
	assert.Equal(t, "", buf.String())
}

func TestSuggest(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	s := Suggest{Text: "完成任务", Out: &buf}
	require.NoError(t, s.Do(context.Background()))
	assert.Contains(t, buf.String(), suggest.AddPercentage)

	buf.Reset()
	s = Suggest{Text: "完成任务 50%", JSON: true, Out: &buf}
	require.NoError(t, s.Do(context.Background()))
	assert.NotContains(t, buf.String(), suggest.AddPercentage)
}
