// Package core holds the engine-agnostic pieces shared by the runner and its
// front ends: track-space vectors, the play field buffer, colors, input
// frames and runtime settings. Nothing here imports Bubble Tea.
package core

import "math"

// Vec3 is a point or extent in track space.
// X is lateral, Y is vertical and Z grows towards the viewer.
type Vec3 struct {
	X, Y, Z float64
}

func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Uniform is a cube-shaped extent of side v.
func Uniform(v float64) Vec3 {
	return Vec3{X: v, Y: v, Z: v}
}

// Rect is a cell-aligned region of the play field.
type Rect struct {
	X, Y, W, H int
}

func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right and Bottom are exclusive edges.
func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// Clamp bounds v to [lo, hi].
func Clamp[T int | float64](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

// Round rounds half away from zero, matching how distances are displayed.
func Round(v float64) int {
	return int(math.Round(v))
}
