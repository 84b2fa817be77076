// Package bullet labels free-text lines with positional bullet markers.
package bullet

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// letterLimit is the first index that no longer gets a letter label.
	letterLimit = 10
	// numberLimit is the first index that falls through to circled glyphs.
	numberLimit = 36
)

// Circled is the ordered set of circled-number glyphs, used both to detect
// pre-labeled lines and to label lines from index 36 on.
var Circled = []string{"①", "②", "③", "④", "⑤", "⑥", "⑦", "⑧", "⑨", "⑩"}

var (
	letterMarker = regexp.MustCompile(`^[A-Za-z]{1,2}\.`)
	numberMarker = regexp.MustCompile(`^\d+\.`)
)

// Normalize returns one labeled line per non-blank input line. Lines that
// already carry a recognized marker pass through unchanged; the rest are
// labeled by their position among the retained lines.
func Normalize(text string) string {
	lines := Lines(text)
	if len(lines) == 0 {
		return ""
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = Apply(line, i)
	}
	return strings.Join(out, "\n")
}

// Lines splits text into trimmed, non-blank lines.
func Lines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// Count is the number of lines Normalize would emit.
func Count(text string) int {
	return len(Lines(text))
}

// Apply labels a single trimmed line at position idx.
func Apply(line string, idx int) string {
	if HasMarker(line) {
		return line
	}
	return Label(idx) + " " + line
}

// HasMarker reports whether line already starts with a letter, number or
// circled-glyph label.
func HasMarker(line string) bool {
	if letterMarker.MatchString(line) || numberMarker.MatchString(line) {
		return true
	}
	for _, g := range Circled {
		if strings.HasPrefix(line, g) {
			return true
		}
	}
	return false
}

// Label returns the synthesized label for position idx.
func Label(idx int) string {
	switch {
	case idx < 0:
		return ""
	case idx < letterLimit:
		return Letters(idx) + "."
	case idx < numberLimit:
		return strconv.Itoa(idx+1) + "."
	default:
		return Circled[idx%len(Circled)]
	}
}

// Letters renders n in bijective base-26: 0 → a, 25 → z, 26 → aa, 27 → ab.
func Letters(n int) string {
	if n < 0 {
		return ""
	}
	var b []byte
	for {
		b = append(b, byte('a'+n%26))
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
