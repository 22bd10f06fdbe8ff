package hyperspeed

import (
	"fmt"
	"math"

	"github.com/vovakirdan/hyperspeed/internal/config"
	"github.com/vovakirdan/hyperspeed/internal/core"
)

// Pool owns the fixed set of track entities.
// Slots are created once; recycling only rewrites their attributes.
type Pool struct {
	cfg      config.PoolConfig
	rng      RandomGenerator
	entities []Entity
}

// NewPool validates the spawn ranges and places every entity ahead of the
// origin. Obstacles occupy the first cfg.Obstacles slots, bonuses follow.
func NewPool(cfg config.PoolConfig, rng RandomGenerator) (*Pool, error) {
	if err := validatePoolConfig(cfg); err != nil {
		return nil, err
	}

	p := &Pool{
		cfg:      cfg,
		rng:      rng,
		entities: make([]Entity, cfg.Obstacles+cfg.Bonuses),
	}

	for i := range p.entities {
		e := &p.entities[i]
		e.ID = EntityID(i)
		if i < cfg.Obstacles {
			e.Kind = KindObstacle
			p.spawnObstacle(e, 0, 0)
		} else {
			e.Kind = KindBonus
			p.spawnBonus(e, 0, 0)
		}
	}

	return p, nil
}

func validatePoolConfig(cfg config.PoolConfig) error {
	if cfg.Obstacles < 0 || cfg.Bonuses < 0 {
		return fmt.Errorf("hyperspeed: negative pool size %d/%d", cfg.Obstacles, cfg.Bonuses)
	}

	floats := []struct {
		name string
		r    config.Range
	}{
		{"obstacle_scale", cfg.ObstacleScale},
		{"spread_x", cfg.SpreadX},
		{"spawn_depth", cfg.SpawnDepth},
	}
	for _, f := range floats {
		if math.IsNaN(f.r.Min) || math.IsNaN(f.r.Max) || f.r.Min > f.r.Max {
			return fmt.Errorf("%w: pool %s [%v, %v]", ErrInvalidRange, f.name, f.r.Min, f.r.Max)
		}
	}

	// Spawns must land ahead of the craft.
	if !(cfg.SpawnAhead >= 0) || !(cfg.SpawnDepth.Min >= 0) {
		return fmt.Errorf("%w: pool spawn_ahead %v and spawn_depth min %v must not be negative",
			ErrInvalidRange, cfg.SpawnAhead, cfg.SpawnDepth.Min)
	}

	if math.Ceil(cfg.BonusValue.Min) > math.Floor(cfg.BonusValue.Max) {
		return fmt.Errorf("%w: pool bonus_value [%v, %v]", ErrInvalidRange, cfg.BonusValue.Min, cfg.BonusValue.Max)
	}
	if cfg.BonusValue.Max <= 0 {
		return fmt.Errorf("%w: pool bonus_value max %v must be positive", ErrInvalidRange, cfg.BonusValue.Max)
	}
	return nil
}

// spawnObstacle gives e a random size and places it ahead of (refX, refZ).
func (p *Pool) spawnObstacle(e *Entity, refX, refZ float64) {
	s := p.cfg.ObstacleScale
	e.Scale = core.NewVec3(
		MustFloat(p.rng, s.Min, s.Max),
		MustFloat(p.rng, s.Min, s.Max),
		MustFloat(p.rng, s.Min, s.Max),
	)
	e.Value = 0
	e.Hue = 0
	e.Position = p.placement(refX, refZ, e.Scale.Y)
}

// spawnBonus draws a new reward, sizes the bonus by it and places it ahead
// of (refX, refZ). Bigger rewards are bigger and redder.
func (p *Pool) spawnBonus(e *Entity, refX, refZ float64) {
	e.Value = MustInt(p.rng, p.cfg.BonusValue.Min, p.cfg.BonusValue.Max)
	ratio := float64(e.Value) / p.cfg.BonusValue.Max

	e.Scale = core.Uniform(ratio * p.cfg.BonusSize)
	e.Hue = 0.5 + 0.5*ratio
	e.Position = p.placement(refX, refZ, e.Scale.Y)
}

func (p *Pool) placement(refX, refZ, height float64) core.Vec3 {
	return core.NewVec3(
		refX+MustFloat(p.rng, p.cfg.SpreadX.Min, p.cfg.SpreadX.Max),
		height/2,
		refZ-p.cfg.SpawnAhead-MustFloat(p.rng, p.cfg.SpawnDepth.Min, p.cfg.SpawnDepth.Max),
	)
}

// Recycle respawns the entity in slot id ahead of (refX, refZ).
// Panics on an id outside the pool.
func (p *Pool) Recycle(id EntityID, refX, refZ float64) {
	e := p.slot(id)
	switch e.Kind {
	case KindObstacle:
		p.spawnObstacle(e, refX, refZ)
	case KindBonus:
		p.spawnBonus(e, refX, refZ)
	}
}

func (p *Pool) slot(id EntityID) *Entity {
	if id < 0 || int(id) >= len(p.entities) {
		panic(fmt.Sprintf("hyperspeed: entity %d outside pool of %d", id, len(p.entities)))
	}
	return &p.entities[id]
}

// Entity returns a copy of the entity in slot id.
func (p *Pool) Entity(id EntityID) Entity {
	return *p.slot(id)
}

// Entities returns a copy of every slot in id order.
func (p *Pool) Entities() []Entity {
	out := make([]Entity, len(p.entities))
	copy(out, p.entities)
	return out
}

// Len returns the fixed number of slots.
func (p *Pool) Len() int {
	return len(p.entities)
}

// Count returns how many slots hold the given kind.
func (p *Pool) Count(kind EntityKind) int {
	n := 0
	for i := range p.entities {
		if p.entities[i].Kind == kind {
			n++
		}
	}
	return n
}
