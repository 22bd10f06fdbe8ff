package hyperspeed

// Listener receives game events synchronously from inside a step.
// Implementations must not call back into the game.
type Listener interface {
	HealthChanged(health int)
	ScoreChanged(score int)
	DistanceChanged(distance int)
	GameOver(score, distance int)
	EntityRecycled(e Entity)
}

// ListenerFuncs adapts optional functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnHealth   func(health int)
	OnScore    func(score int)
	OnDistance func(distance int)
	OnGameOver func(score, distance int)
	OnRecycle  func(e Entity)
}

func (f ListenerFuncs) HealthChanged(health int) {
	if f.OnHealth != nil {
		f.OnHealth(health)
	}
}

func (f ListenerFuncs) ScoreChanged(score int) {
	if f.OnScore != nil {
		f.OnScore(score)
	}
}

func (f ListenerFuncs) DistanceChanged(distance int) {
	if f.OnDistance != nil {
		f.OnDistance(distance)
	}
}

func (f ListenerFuncs) GameOver(score, distance int) {
	if f.OnGameOver != nil {
		f.OnGameOver(score, distance)
	}
}

func (f ListenerFuncs) EntityRecycled(e Entity) {
	if f.OnRecycle != nil {
		f.OnRecycle(e)
	}
}

// ResultSubmitter receives the final result once when a run ends.
type ResultSubmitter interface {
	SubmitFinalResult(score, distance int) error
}

// nopListener is used when no listener is attached.
type nopListener struct{}

func (nopListener) HealthChanged(int)     {}
func (nopListener) ScoreChanged(int)      {}
func (nopListener) DistanceChanged(int)   {}
func (nopListener) GameOver(int, int)     {}
func (nopListener) EntityRecycled(Entity) {}
