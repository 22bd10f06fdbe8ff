package hyperspeed

import (
	"testing"

	"github.com/vovakirdan/hyperspeed/internal/config"
	"github.com/vovakirdan/hyperspeed/internal/core"
)

// parkAll moves every entity far ahead so it neither passes nor collides.
func parkAll(p *Pool) {
	for i := range p.entities {
		p.entities[i].Position = core.NewVec3(0, 0, -1000)
	}
}

func place(p *Pool, id EntityID, pos, scale core.Vec3) {
	p.entities[id].Position = pos
	p.entities[id].Scale = scale
}

func newTestResolver() *Resolver {
	cfg := config.DefaultHyperspeedConfig()
	return NewResolver(cfg.Collision, cfg.Player)
}

func TestCollidesThresholds(t *testing.T) {
	e := Entity{Position: core.NewVec3(0.6, 0.5, -0.6), Scale: core.Uniform(1)}

	// thresholds are 0.2 + 0.5 = 0.7 on both axes
	if !Collides(e, WorldOffset{}, 0.2) {
		t.Error("entity within both thresholds should collide")
	}
	if Collides(e, WorldOffset{X: 0.2}, 0.2) {
		t.Error("entity shifted past the X threshold should not collide")
	}
	if Collides(e, WorldOffset{Z: -0.2}, 0.2) {
		t.Error("entity beyond the Z threshold should not collide")
	}
}

func TestObstacleHitCostsHealth(t *testing.T) {
	p := newTestPool(t, 10)
	parkAll(p)
	place(p, 0, core.NewVec3(0, 0.5, -0.1), core.Uniform(1))

	r := newTestResolver()
	player := PlayerState{Health: 50}
	off := WorldOffset{X: 0, Z: 0}

	report := r.Resolve(p, &player, off)

	if player.Health != 40 {
		t.Errorf("Health = %d, expected 40", player.Health)
	}
	if report.Terminal {
		t.Error("a hit with health left should not be terminal")
	}
	if len(report.Resolutions) != 1 || report.Resolutions[0].Outcome != OutcomeObstacleHit {
		t.Fatalf("Resolutions = %+v, expected one obstacle hit", report.Resolutions)
	}
	if z := p.Entity(0).Position.Z; z > -100 {
		t.Errorf("hit obstacle Z = %f, expected recycled to <= -100", z)
	}
}

func TestTerminalDeterminism(t *testing.T) {
	p := newTestPool(t, 11)
	parkAll(p)
	r := newTestResolver()
	player := PlayerState{Health: 10}
	off := WorldOffset{}

	place(p, 0, core.NewVec3(0, 0.5, 0), core.Uniform(1))
	report := r.Resolve(p, &player, off)
	if player.Health != 0 {
		t.Fatalf("Health = %d, expected 0", player.Health)
	}
	if report.Terminal {
		t.Fatal("reaching zero health should not end the run by itself")
	}

	place(p, 3, core.NewVec3(0, 0.5, 0), core.Uniform(1))
	before := p.Entity(3)
	report = r.Resolve(p, &player, off)

	if !report.Terminal {
		t.Fatal("hit at zero health should be terminal")
	}
	if player.Health != 0 {
		t.Errorf("Health = %d, expected to stay at 0", player.Health)
	}
	if p.Entity(3) != before {
		t.Error("the terminal obstacle must not be recycled")
	}
	last := report.Resolutions[len(report.Resolutions)-1]
	if last.ID != 3 || last.Outcome != OutcomeTerminal {
		t.Errorf("last resolution = %+v, expected terminal on entity 3", last)
	}
}

func TestTerminalStopsResolution(t *testing.T) {
	p := newTestPool(t, 12)
	parkAll(p)
	r := newTestResolver()
	player := PlayerState{Health: 0}

	place(p, 1, core.NewVec3(0, 0.5, 0), core.Uniform(1))
	p.entities[15].Value = 7
	place(p, 15, core.NewVec3(0, 0.1, 0), core.Uniform(0.2))

	report := r.Resolve(p, &player, WorldOffset{})
	if !report.Terminal {
		t.Fatal("expected terminal outcome")
	}
	if player.Score != 0 {
		t.Errorf("Score = %d, expected bonuses after the terminal hit to be skipped", player.Score)
	}
}

func TestBonusPickup(t *testing.T) {
	p := newTestPool(t, 13)
	parkAll(p)
	r := newTestResolver()
	player := PlayerState{Health: 50}
	off := WorldOffset{X: -4, Z: 240}

	// apparent position (0, 0.2, 0)
	p.entities[12].Value = 15
	place(p, 12, core.NewVec3(4, 0.2, -240), core.Uniform(0.375))

	report := r.Resolve(p, &player, off)

	if player.Score != 15 {
		t.Errorf("Score = %d, expected 15", player.Score)
	}
	if player.Health != 50 {
		t.Errorf("Health = %d, expected 50", player.Health)
	}
	if len(report.Resolutions) != 1 || report.Resolutions[0].Value != 15 {
		t.Fatalf("Resolutions = %+v, expected one pickup worth 15", report.Resolutions)
	}

	e := p.Entity(12)
	if e.Value < 5 || e.Value > 20 {
		t.Errorf("recycled bonus value = %d, expected [5, 20]", e.Value)
	}
	if e.ApparentZ(off) > -100 {
		t.Errorf("recycled bonus apparent Z = %f, expected <= -100", e.ApparentZ(off))
	}
	// collision recycle is centered on the craft's track position (4)
	if e.Position.X < -26 || e.Position.X >= 34 {
		t.Errorf("recycled bonus X = %f, expected [-26, 34)", e.Position.X)
	}
}

func TestPassThroughRespawn(t *testing.T) {
	p := newTestPool(t, 14)
	parkAll(p)
	r := newTestResolver()
	player := PlayerState{Health: 50}
	off := WorldOffset{X: 7, Z: 100}

	// apparent Z = +5, lined up with the craft
	place(p, 2, core.NewVec3(-7, 0.5, -95), core.Uniform(1))

	report := r.Resolve(p, &player, off)

	if player.Health != 50 {
		t.Errorf("Health = %d, a passed obstacle must not cost health", player.Health)
	}
	if len(report.Resolutions) != 1 || report.Resolutions[0].Outcome != OutcomePassed {
		t.Fatalf("Resolutions = %+v, expected one pass", report.Resolutions)
	}

	e := p.Entity(2)
	if e.Position.Z > -200 || e.Position.Z <= -300 {
		t.Errorf("respawn Z = %f, expected (-300, -200]", e.Position.Z)
	}
	// passes respawn around the craft's pose, not its track position
	if e.Position.X < -30 || e.Position.X >= 30 {
		t.Errorf("respawn X = %f, expected [-30, 30)", e.Position.X)
	}
}

func TestAtMostOneOutcomePerEntity(t *testing.T) {
	p := newTestPool(t, 15)
	r := newTestResolver()
	player := PlayerState{Health: 50}

	// Sweep the track so that passes and hits both occur.
	for step := 0; step < 2000; step++ {
		off := WorldOffset{X: float64(step%60) - 30, Z: float64(step) * 0.33}
		report := r.Resolve(p, &player, off)

		seen := make(map[EntityID]bool)
		for _, res := range report.Resolutions {
			if seen[res.ID] {
				t.Fatalf("step %d: entity %d resolved twice", step, res.ID)
			}
			seen[res.ID] = true
		}
		if report.Terminal {
			break
		}
	}
}

func TestHealthMonotonic(t *testing.T) {
	p := newTestPool(t, 16)
	r := newTestResolver()
	player := PlayerState{Health: 50}

	for step := 0; step < 5000; step++ {
		before := player.Health
		off := WorldOffset{X: float64(step%40) - 20, Z: float64(step) * 0.33}
		report := r.Resolve(p, &player, off)

		hits := 0
		for _, res := range report.Resolutions {
			if res.Outcome == OutcomeObstacleHit {
				hits++
			}
		}
		if player.Health != before-10*hits {
			t.Fatalf("step %d: health %d -> %d with %d hits", step, before, player.Health, hits)
		}
		if player.Health < 0 {
			t.Fatalf("step %d: health went negative: %d", step, player.Health)
		}
		if report.Terminal {
			break
		}
	}
}
