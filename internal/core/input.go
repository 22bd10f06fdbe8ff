package core

// Action is a key press after it has been mapped to what the pilot meant.
type Action uint8

const (
	ActionNone Action = iota
	ActionLeft
	ActionRight
	ActionStart // leaves the intro panel
	ActionPause
	ActionRestart
	ActionQuit
)

// InputFrame collects the actions pressed during one tick.
type InputFrame struct {
	pressed uint16
}

func NewInputFrame() InputFrame {
	return InputFrame{}
}

func (f *InputFrame) Set(a Action) {
	if a != ActionNone {
		f.pressed |= 1 << a
	}
}

func (f InputFrame) Has(a Action) bool {
	return a != ActionNone && f.pressed&(1<<a) != 0
}

// Clear empties the frame for the next tick.
func (f *InputFrame) Clear() {
	f.pressed = 0
}

// LateralIntent folds the steering actions into -1, 0 or +1.
// Left and right in the same frame cancel out.
func (f InputFrame) LateralIntent() int {
	intent := 0
	if f.Has(ActionLeft) {
		intent--
	}
	if f.Has(ActionRight) {
		intent++
	}
	return intent
}
