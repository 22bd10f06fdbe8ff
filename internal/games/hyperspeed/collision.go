package hyperspeed

import (
	"math"

	"github.com/vovakirdan/hyperspeed/internal/config"
)

// Outcome is what happened to one entity during a step.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePassed
	OutcomeObstacleHit
	OutcomeBonusCollected
	OutcomeTerminal
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomePassed:
		return "passed"
	case OutcomeObstacleHit:
		return "obstacle_hit"
	case OutcomeBonusCollected:
		return "bonus_collected"
	case OutcomeTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Recycled reports whether the outcome respawned its entity.
func (o Outcome) Recycled() bool {
	return o == OutcomePassed || o == OutcomeObstacleHit || o == OutcomeBonusCollected
}

// Resolution records the outcome for a single entity.
type Resolution struct {
	ID      EntityID
	Outcome Outcome
	Value   int // Reward collected, bonuses only
}

// StepReport lists the outcomes of one step in slot order.
type StepReport struct {
	Resolutions []Resolution
	Terminal    bool
}

// Resolver applies pass-through and collision rules to the pool.
type Resolver struct {
	threshold float64
	penalty   int

	// reused between steps
	passed      []bool
	resolutions []Resolution
}

// NewResolver creates a resolver with the given thresholds and penalty.
func NewResolver(col config.CollisionConfig, player config.PlayerConfig) *Resolver {
	return &Resolver{
		threshold: col.Threshold,
		penalty:   player.ObstaclePenalty,
	}
}

// Collides reports whether e overlaps the craft at the given offset.
// The craft sits at the origin; only X and Z are tested.
func Collides(e Entity, off WorldOffset, threshold float64) bool {
	thresholdX := threshold + e.Scale.X/2
	thresholdZ := threshold + e.Scale.Z/2
	return e.ApparentZ(off) > -thresholdZ && math.Abs(e.ApparentX(off)) < thresholdX
}

// Resolve runs one step of rules over every entity.
//
// Entities that moved behind the craft are recycled first, relative to the
// craft's pose. The remaining entities are tested for contact; hits recycle
// relative to the craft's track position. An obstacle hit at zero health is
// terminal and stops resolution with nothing else changed.
//
// The returned report shares storage with the resolver and is only valid
// until the next call.
func (r *Resolver) Resolve(pool *Pool, player *PlayerState, off WorldOffset) StepReport {
	n := pool.Len()
	if cap(r.passed) < n {
		r.passed = make([]bool, n)
	}
	r.passed = r.passed[:n]
	clear(r.passed)
	r.resolutions = r.resolutions[:0]

	for i := range pool.entities {
		if pool.entities[i].ApparentZ(off) <= 0 {
			continue
		}
		id := EntityID(i)
		pool.Recycle(id, player.PoseX, -off.Z)
		r.passed[i] = true
		r.resolutions = append(r.resolutions, Resolution{ID: id, Outcome: OutcomePassed})
	}

	refX := LateralPosition(off)
	for i := range pool.entities {
		if r.passed[i] {
			continue
		}
		e := pool.entities[i]
		if !Collides(e, off, r.threshold) {
			continue
		}

		switch e.Kind {
		case KindObstacle:
			if player.Health <= 0 {
				r.resolutions = append(r.resolutions, Resolution{ID: e.ID, Outcome: OutcomeTerminal})
				return StepReport{Resolutions: r.resolutions, Terminal: true}
			}
			player.Health -= r.penalty
			pool.Recycle(e.ID, refX, -off.Z)
			r.resolutions = append(r.resolutions, Resolution{ID: e.ID, Outcome: OutcomeObstacleHit})

		case KindBonus:
			player.Score += e.Value
			pool.Recycle(e.ID, refX, -off.Z)
			r.resolutions = append(r.resolutions, Resolution{ID: e.ID, Outcome: OutcomeBonusCollected, Value: e.Value})
		}
	}

	return StepReport{Resolutions: r.resolutions}
}
