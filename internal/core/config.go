package core

const defaultTickRate = 60

// RuntimeConfig is what a front end tells the game about its surroundings.
type RuntimeConfig struct {
	ScreenW  int   // play field columns
	ScreenH  int   // play field rows
	TickRate int   // ticks per second
	Seed     int64 // track seed; the TUI replaces 0 with the clock
}

func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: defaultTickRate}
}

// TickDelta is the simulated time one tick covers, in seconds.
func (c RuntimeConfig) TickDelta() float64 {
	rate := c.TickRate
	if rate <= 0 {
		rate = defaultTickRate
	}
	return 1 / float64(rate)
}

// GameState is the snapshot the front end draws its HUD and run history from.
type GameState struct {
	Score    int
	Distance int // rounded for display
	Health   int
	Started  bool // past the intro panel
	GameOver bool
	Paused   bool
}

// StepResult is what one Step reports back.
type StepResult struct {
	State GameState
}
