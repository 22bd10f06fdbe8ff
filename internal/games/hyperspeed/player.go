package hyperspeed

import "github.com/vovakirdan/hyperspeed/internal/core"

// PlayerState holds the craft's vital values.
type PlayerState struct {
	// LateralIntent is -1 (left), 0 or +1 (right).
	LateralIntent int

	// PoseX is the craft's rendered lateral pose. The craft stays centered
	// and the world shifts instead, so this is 0 unless a front end moves it.
	// Passed entities respawn relative to it.
	PoseX float64

	Health int
	Score  int
}

// LateralPosition returns where the craft is relative to the track.
func LateralPosition(off WorldOffset) float64 {
	return -off.X
}

// Distance returns the travelled distance rounded to whole units.
func Distance(off WorldOffset) int {
	return core.Round(off.Z)
}
