package hyperspeed

import "math"

// Snapshot is a read-only view of a run for renderers and tests.
type Snapshot struct {
	Phase         Phase
	Paused        bool
	Tick          int
	Elapsed       float64
	Offset        WorldOffset
	Health        int
	Score         int
	Distance      int
	LateralIntent int
	Entities      []Entity
}

// Snapshot copies the current run state.
func (g *Game) Snapshot() Snapshot {
	off := g.clock.Offset()
	return Snapshot{
		Phase:         g.phase,
		Paused:        g.paused,
		Tick:          g.tickCount,
		Elapsed:       g.clock.Elapsed(),
		Offset:        off,
		Health:        g.player.Health,
		Score:         g.player.Score,
		Distance:      Distance(off),
		LateralIntent: g.player.LateralIntent,
		Entities:      g.pool.Entities(),
	}
}

// Hash folds the snapshot into a single value for determinism checks.
func (snap *Snapshot) Hash() uint64 {
	h := uint64(snap.Phase)                 //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Tick)            //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Health)          //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Score)           //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Distance)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.LateralIntent+1) //#nosec G115 -- hash computation
	h = h*31 + math.Float64bits(snap.Offset.X)
	h = h*31 + math.Float64bits(snap.Offset.Z)

	for _, e := range snap.Entities {
		h = h*31 + uint64(e.Kind)  //#nosec G115 -- hash computation
		h = h*31 + uint64(e.Value) //#nosec G115 -- hash computation
		h = h*31 + math.Float64bits(e.Position.X)
		h = h*31 + math.Float64bits(e.Position.Y)
		h = h*31 + math.Float64bits(e.Position.Z)
		h = h*31 + math.Float64bits(e.Scale.X)
	}

	return h
}
