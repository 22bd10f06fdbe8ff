package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/hyperspeed/internal/core"
)

func TestMapKey(t *testing.T) {
	km := DefaultKeyMap()

	cases := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{press("a"), core.ActionLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{press("d"), core.ActionRight},
		{space, core.ActionStart},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionStart},
		{press("p"), core.ActionPause},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause},
		{press("r"), core.ActionRestart},
		{press("q"), core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{press("x"), core.ActionNone},
		{tea.KeyMsg{Type: tea.KeyTab}, core.ActionNone},
	}
	for _, tc := range cases {
		if got := km.MapKey(tc.msg); got != tc.want {
			t.Errorf("MapKey(%q) = %v, want %v", tc.msg.String(), got, tc.want)
		}
	}
}

func TestKeyMapHelp(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Error("ShortHelp() is empty")
	}
	n := 0
	for _, col := range km.FullHelp() {
		n += len(col)
	}
	if n != 8 {
		t.Errorf("FullHelp() lists %d bindings, want 8", n)
	}
}
