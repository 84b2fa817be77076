package bullet

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "only blanks", in: "\n  \n\t\n", want: ""},
		{name: "plain lines", in: "x\ny\nz", want: "a. x\nb. y\nc. z"},
		{name: "pre-labeled first line", in: "a. x\ny", want: "a. x\nb. y"},
		{name: "blank lines do not take an index", in: "x\n\n\ny", want: "a. x\nb. y"},
		{name: "crlf and padding", in: "  x  \r\n y\r\n", want: "a. x\nb. y"},
		{name: "numbered passes through", in: "12. done\nnext", want: "12. done\nb. next"},
		{name: "upper case letters pass through", in: "AB. upper", want: "AB. upper"},
		{name: "circled passes through", in: "③ third\nmore", want: "③ third\nb. more"},
		{name: "three letters are not a marker", in: "abc. word", want: "a. abc. word"},
		{name: "chinese text", in: "写文档\n开会", want: "a. 写文档\nb. 开会"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	in := "one\ntwo\n\nthree"
	once := Normalize(in)
	assert.Equal(t, once, Normalize(once))
}

func TestLabelLetterRange(t *testing.T) {
	want := []string{"a.", "b.", "c.", "d.", "e.", "f.", "g.", "h.", "i.", "j."}
	for idx, w := range want {
		assert.Equal(t, w, Label(idx), "index %d", idx)
	}
}

func TestLabelNumberRange(t *testing.T) {
	for idx := 10; idx < 36; idx++ {
		assert.Equal(t, fmt.Sprintf("%d.", idx+1), Label(idx), "index %d", idx)
	}
}

func TestLabelCircledRangeCycles(t *testing.T) {
	assert.Equal(t, "⑦", Label(36))
	assert.Equal(t, "⑩", Label(39))
	assert.Equal(t, "①", Label(40))
	assert.Equal(t, "⑦", Label(46))
}

func TestLetters(t *testing.T) {
	cases := map[int]string{
		0:   "a",
		9:   "j",
		25:  "z",
		26:  "aa",
		27:  "ab",
		51:  "az",
		52:  "ba",
		701: "zz",
		702: "aaa",
	}
	for n, want := range cases {
		assert.Equal(t, want, Letters(n), "n=%d", n)
	}
	assert.Equal(t, "", Letters(-1))
}

func TestNormalizeLongList(t *testing.T) {
	lines := make([]string, 40)
	for i := range lines {
		lines[i] = fmt.Sprintf("item %d", i)
	}
	out := strings.Split(Normalize(strings.Join(lines, "\n")), "\n")
	require.Len(t, out, 40)
	assert.Equal(t, "a. item 0", out[0])
	assert.Equal(t, "j. item 9", out[9])
	assert.Equal(t, "11. item 10", out[10])
	assert.Equal(t, "36. item 35", out[35])
	assert.Equal(t, "⑦ item 36", out[36])
}

func TestHasMarker(t *testing.T) {
	assert.True(t, HasMarker("a. x"))
	assert.True(t, HasMarker("ab.x"))
	assert.True(t, HasMarker("3.x"))
	assert.True(t, HasMarker("⑩ x"))
	assert.False(t, HasMarker("x"))
	assert.False(t, HasMarker("- x"))
	assert.False(t, HasMarker("abc. x"))
}

func TestCount(t *testing.T) {
	assert.Equal(t, 0, Count(""))
	assert.Equal(t, 2, Count("x\n\n y \n"))
}
