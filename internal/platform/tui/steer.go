package tui

// Terminals report key presses and auto-repeat but never key releases, so a
// held arrow is seen as a stream of presses. steering keeps the last
// direction for a few ticks after each press and lets it lapse when the
// presses stop.
type steering struct {
	hold      int // ticks a single press lasts
	direction int
	remaining int
}

// newSteering sizes the hold window to roughly a quarter second, which
// bridges the usual keyboard auto-repeat delay.
func newSteering(tickRate int) steering {
	hold := tickRate / 4
	if hold < 1 {
		hold = 1
	}
	return steering{hold: hold}
}

// Press steers towards dir (-1 or +1). An opposite press takes over at once.
func (s *steering) Press(dir int) {
	switch {
	case dir < 0:
		s.direction = -1
	case dir > 0:
		s.direction = 1
	default:
		s.Release()
		return
	}
	s.remaining = s.hold
}

// Release drops the current direction.
func (s *steering) Release() {
	s.direction = 0
	s.remaining = 0
}

// Tick returns the intent for this tick and ages the last press.
func (s *steering) Tick() int {
	if s.remaining <= 0 {
		s.direction = 0
		return 0
	}
	s.remaining--
	return s.direction
}
