package hyperspeed

import "github.com/vovakirdan/hyperspeed/internal/core"

// EntityKind distinguishes the two kinds of pool slot.
type EntityKind int

const (
	KindObstacle EntityKind = iota
	KindBonus
)

// String returns a human-readable name for the kind.
func (k EntityKind) String() string {
	switch k {
	case KindObstacle:
		return "obstacle"
	case KindBonus:
		return "bonus"
	default:
		return "unknown"
	}
}

// EntityID is the stable index of a slot in the pool.
type EntityID int

// Entity is one recyclable obstacle or bonus.
//
// Position.Z is in world space; the entity appears at Position.Z plus the
// forward world offset. Value and Hue are only meaningful for bonuses.
type Entity struct {
	ID       EntityID
	Kind     EntityKind
	Position core.Vec3
	Scale    core.Vec3
	Value    int
	Hue      float64
}

// ApparentZ returns the entity's Z after applying the forward scroll.
func (e Entity) ApparentZ(off WorldOffset) float64 {
	return e.Position.Z + off.Z
}

// ApparentX returns the entity's X after applying the lateral shift.
func (e Entity) ApparentX(off WorldOffset) float64 {
	return e.Position.X + off.X
}
