package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/hyperspeed/internal/core"
)

func TestRenderScreenKeepsLayout(t *testing.T) {
	s := core.NewScreen(6, 3)
	s.DrawText(0, 0, "ab")
	s.SetColored(2, 1, '█', core.ColorRed)
	s.SetColored(3, 1, '█', core.ColorRed)
	s.SetColored(0, 2, '◆', core.ColorBrightCyan)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ab") {
		t.Errorf("line 0 = %q, want prefix ab", lines[0])
	}
	if !strings.Contains(lines[1], "██") {
		t.Errorf("line 1 = %q, same-colored cells should stay together", lines[1])
	}
	if !strings.Contains(lines[2], "◆") {
		t.Errorf("line 2 = %q, missing bonus rune", lines[2])
	}
}

func TestStyleForUnknownColor(t *testing.T) {
	if got := styleFor(core.Color(200)).Render("x"); got != "x" {
		t.Errorf("unknown color rendered %q, want plain text", got)
	}
}
