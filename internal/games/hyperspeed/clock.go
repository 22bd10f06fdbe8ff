package hyperspeed

import "github.com/vovakirdan/hyperspeed/internal/config"

// WorldOffset is how far the world has shifted past the craft.
// Entities appear at their position plus this offset.
type WorldOffset struct {
	X float64 // Lateral shift, opposite to the direction the craft steers
	Z float64 // Forward scroll, grows with elapsed time
}

// Clock accumulates simulated time and derives the world offset from it.
type Clock struct {
	speedZ      float64
	lateralRate float64
	elapsed     float64
	offset      WorldOffset
}

// NewClock creates a clock at time zero.
func NewClock(track config.TrackConfig) *Clock {
	return &Clock{
		speedZ:      track.SpeedZ,
		lateralRate: track.LateralRate,
	}
}

// Advance moves the clock forward by dt seconds with the given lateral intent.
// The forward offset is derived from total elapsed time. The lateral shift is
// applied once per call regardless of dt.
func (c *Clock) Advance(dt float64, intent int) {
	if !(dt >= 0) { // negative or NaN
		dt = 0
	}
	c.elapsed += dt
	c.offset.Z = c.speedZ * c.elapsed
	c.offset.X += float64(sign(intent)) * -c.lateralRate
}

// Elapsed returns the accumulated simulated time in seconds.
func (c *Clock) Elapsed() float64 { return c.elapsed }

// Offset returns the current world offset.
func (c *Clock) Offset() WorldOffset { return c.offset }

// SpeedZ returns the constant forward speed.
func (c *Clock) SpeedZ() float64 { return c.speedZ }

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
