// Package hyperspeed implements an endless lateral-dodge runner.
//
// The craft stays at the origin while the world scrolls towards it at a
// constant speed and shifts sideways as the player steers. A fixed pool of
// obstacles and bonuses is recycled ahead of the craft whenever an entity is
// passed or hit. The package is single-threaded and has no terminal or
// network dependencies; front ends drive it through Step or StepDelta and
// observe it through a Listener.
package hyperspeed

import (
	"fmt"

	"github.com/vovakirdan/hyperspeed/internal/config"
	"github.com/vovakirdan/hyperspeed/internal/core"
)

// Phase is the lifecycle stage of a run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Game owns one run: the pool, the clock, the resolver and the craft.
type Game struct {
	cfg     config.HyperspeedConfig
	runtime core.RuntimeConfig

	rng      RandomGenerator
	reseed   bool // Reset draws a fresh NewRand from the runtime seed
	pool     *Pool
	clock    *Clock
	resolver *Resolver
	player   PlayerState

	phase     Phase
	paused    bool
	distance  int // last distance reported to the listener
	tickCount int

	listener  Listener
	submitter ResultSubmitter
	submitErr error
}

// New creates an idle game seeded from runtime.Seed.
func New(cfg config.HyperspeedConfig, runtime core.RuntimeConfig) (*Game, error) {
	g, err := NewWithRandom(cfg, runtime, NewRand(runtime.Seed))
	if err != nil {
		return nil, err
	}
	g.reseed = true
	return g, nil
}

// NewWithRandom creates an idle game that draws from rng. Reset keeps
// drawing from the same rng instead of reseeding.
func NewWithRandom(cfg config.HyperspeedConfig, runtime core.RuntimeConfig, rng RandomGenerator) (*Game, error) {
	g := &Game{
		cfg:      cfg,
		listener: nopListener{},
	}
	if err := g.build(runtime, rng); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) build(runtime core.RuntimeConfig, rng RandomGenerator) error {
	pool, err := NewPool(g.cfg.Pool, rng)
	if err != nil {
		return fmt.Errorf("hyperspeed: cannot build pool: %w", err)
	}

	g.runtime = runtime
	g.rng = rng
	g.pool = pool
	g.clock = NewClock(g.cfg.Track)
	g.resolver = NewResolver(g.cfg.Collision, g.cfg.Player)
	g.player = PlayerState{Health: g.cfg.Player.StartHealth}
	g.phase = PhaseIdle
	g.paused = false
	g.distance = 0
	g.tickCount = 0
	g.submitErr = nil
	return nil
}

// SetListener attaches l to receive events. Nil detaches.
func (g *Game) SetListener(l Listener) {
	if l == nil {
		l = nopListener{}
	}
	g.listener = l
}

// SetResultSubmitter attaches s to receive the final result.
func (g *Game) SetResultSubmitter(s ResultSubmitter) {
	g.submitter = s
}

// SubmitErr returns the error from the last result submission, if any.
func (g *Game) SubmitErr() error {
	return g.submitErr
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "hyperspeed"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Hyperspeed"
}

// Reset throws the current run away and builds a fresh idle one.
// Games from New reseed from runtime.Seed; games from NewWithRandom keep
// their generator. Listener and submitter stay attached.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	rng := g.rng
	if g.reseed {
		rng = NewRand(runtime.Seed)
	}
	// The pool config was validated by New, so only a broken generator
	// could fail here.
	if err := g.build(runtime, rng); err != nil {
		panic(err)
	}
}

// Start leaves the intro. It does nothing outside PhaseIdle.
func (g *Game) Start() {
	if g.phase == PhaseIdle {
		g.phase = PhaseRunning
	}
}

// SetLateralIntent steers left (<0), right (>0) or straight (0).
func (g *Game) SetLateralIntent(v int) {
	g.player.LateralIntent = sign(v)
}

// ClearLateralIntent stops steering.
func (g *Game) ClearLateralIntent() {
	g.player.LateralIntent = 0
}

// Step maps platform actions onto the controller and advances one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionStart) {
		g.Start()
	}
	if g.phase == PhaseRunning && in.Has(core.ActionPause) {
		g.paused = !g.paused
	}

	g.SetLateralIntent(in.LateralIntent())
	g.StepDelta(g.runtime.TickDelta())

	return core.StepResult{State: g.State()}
}

// StepDelta advances the run by dt seconds.
// It is a no-op unless the game is running and not paused.
func (g *Game) StepDelta(dt float64) StepReport {
	if g.phase != PhaseRunning || g.paused {
		return StepReport{}
	}
	g.tickCount++

	prevHealth := g.player.Health
	prevScore := g.player.Score

	g.clock.Advance(dt, g.player.LateralIntent)
	report := g.resolver.Resolve(g.pool, &g.player, g.clock.Offset())

	for _, res := range report.Resolutions {
		if res.Outcome.Recycled() {
			g.listener.EntityRecycled(g.pool.Entity(res.ID))
		}
	}
	if g.player.Health != prevHealth {
		g.listener.HealthChanged(g.player.Health)
	}
	if g.player.Score != prevScore {
		g.listener.ScoreChanged(g.player.Score)
	}
	if d := Distance(g.clock.Offset()); d != g.distance {
		g.distance = d
		g.listener.DistanceChanged(d)
	}

	if report.Terminal {
		g.finish()
	}
	return report
}

func (g *Game) finish() {
	g.phase = PhaseGameOver
	score, distance := g.player.Score, g.distance
	g.listener.GameOver(score, distance)
	if g.submitter != nil {
		g.submitErr = g.submitter.SubmitFinalResult(score, distance)
	}
}

// Phase returns the lifecycle stage.
func (g *Game) Phase() Phase {
	return g.phase
}

// Player returns a copy of the craft's state.
func (g *Game) Player() PlayerState {
	return g.player
}

// Offset returns the current world offset.
func (g *Game) Offset() WorldOffset {
	return g.clock.Offset()
}

// Pool exposes the entity pool for inspection.
func (g *Game) Pool() *Pool {
	return g.pool
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.player.Score,
		Distance: Distance(g.clock.Offset()),
		Health:   g.player.Health,
		Started:  g.phase != PhaseIdle,
		GameOver: g.phase == PhaseGameOver,
		Paused:   g.paused,
	}
}
