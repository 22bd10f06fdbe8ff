package hyperspeed

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrInvalidRange is returned when a sampling range holds no values.
var ErrInvalidRange = errors.New("hyperspeed: invalid range")

// RandomGenerator samples uniform values for spawning and recycling.
// Implementations need not be safe for concurrent use.
type RandomGenerator interface {
	// UniformFloat returns a value in [min, max).
	UniformFloat(min, max float64) (float64, error)

	// UniformInt returns an integer in [ceil(min), floor(max)].
	UniformInt(min, max float64) (int, error)
}

// Rand is a seeded RandomGenerator backed by math/rand.
type Rand struct {
	r *rand.Rand
}

// NewRand creates a generator with a deterministic seed.
func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

// UniformFloat returns a value in [min, max). min == max returns min.
func (g *Rand) UniformFloat(min, max float64) (float64, error) {
	if math.IsNaN(min) || math.IsNaN(max) || min > max {
		return 0, fmt.Errorf("%w: float [%v, %v)", ErrInvalidRange, min, max)
	}
	return g.r.Float64()*(max-min) + min, nil
}

// UniformInt returns an integer in [ceil(min), floor(max)], both inclusive.
func (g *Rand) UniformInt(min, max float64) (int, error) {
	lo := math.Ceil(min)
	hi := math.Floor(max)
	if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
		return 0, fmt.Errorf("%w: int [%v, %v]", ErrInvalidRange, min, max)
	}
	return int(lo) + g.r.Intn(int(hi-lo)+1), nil
}

// MustFloat samples a range that was validated up front and panics if the
// generator rejects it.
func MustFloat(rng RandomGenerator, min, max float64) float64 {
	v, err := rng.UniformFloat(min, max)
	if err != nil {
		panic(err)
	}
	return v
}

// MustInt is the integer counterpart of MustFloat.
func MustInt(rng RandomGenerator, min, max float64) int {
	v, err := rng.UniformInt(min, max)
	if err != nil {
		panic(err)
	}
	return v
}
