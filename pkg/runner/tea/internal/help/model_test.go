package help

import (
	"strings"
	"testing"
)

func TestViewRendersKeys(t *testing.T) {
	m := New(80, 40)
	view := m.View()
	if !strings.Contains(view, "ctrl+s") {
		t.Fatalf("expected key table in help, got:\n%s", view)
	}
	if m.err != nil {
		t.Fatalf("unexpected render error: %v", m.err)
	}
}

func TestSetSizeClampsToMinimum(t *testing.T) {
	m := New(0, 0)
	if m.width != 32 || m.height != 8 {
		t.Fatalf("expected minimum size, got %dx%d", m.width, m.height)
	}
}
