// Package tui runs the hyperspeed game in a terminal with Bubble Tea.
// It maps keys onto game actions, drives the fixed-rate simulation tick,
// draws the HUD and scoreboard, and hosts the same flow over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives one simulation step.
type TickMsg time.Time

// tickCmd schedules the next TickMsg at tickRate ticks per second.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	return tea.Tick(time.Second/time.Duration(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
