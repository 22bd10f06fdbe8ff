package hyperspeed

import (
	"errors"
	"math"
	"testing"
)

func TestUniformFloatBounds(t *testing.T) {
	rng := NewRand(1)
	for i := 0; i < 1000; i++ {
		v, err := rng.UniformFloat(-30, 30)
		if err != nil {
			t.Fatalf("UniformFloat() error = %v", err)
		}
		if v < -30 || v >= 30 {
			t.Fatalf("UniformFloat(-30, 30) = %f, out of range", v)
		}
	}
}

func TestUniformFloatDegenerateRange(t *testing.T) {
	rng := NewRand(1)
	v, err := rng.UniformFloat(2, 2)
	if err != nil {
		t.Fatalf("UniformFloat(2, 2) error = %v", err)
	}
	if v != 2 {
		t.Errorf("UniformFloat(2, 2) = %f, expected 2", v)
	}
}

func TestUniformIntInclusiveBounds(t *testing.T) {
	rng := NewRand(7)
	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		v, err := rng.UniformInt(5, 20)
		if err != nil {
			t.Fatalf("UniformInt() error = %v", err)
		}
		if v < 5 || v > 20 {
			t.Fatalf("UniformInt(5, 20) = %d, out of range", v)
		}
		seen[v] = true
	}
	if !seen[5] || !seen[20] {
		t.Errorf("UniformInt(5, 20) never produced an endpoint: saw 5=%v 20=%v", seen[5], seen[20])
	}
}

func TestUniformIntFractionalBounds(t *testing.T) {
	rng := NewRand(3)
	for i := 0; i < 200; i++ {
		v, err := rng.UniformInt(4.5, 6.2)
		if err != nil {
			t.Fatalf("UniformInt() error = %v", err)
		}
		if v != 5 && v != 6 {
			t.Fatalf("UniformInt(4.5, 6.2) = %d, expected 5 or 6", v)
		}
	}
}

func TestInvalidRanges(t *testing.T) {
	rng := NewRand(0)

	if _, err := rng.UniformFloat(3, 1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("UniformFloat(3, 1) error = %v, expected ErrInvalidRange", err)
	}
	if _, err := rng.UniformFloat(math.NaN(), 1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("UniformFloat(NaN, 1) error = %v, expected ErrInvalidRange", err)
	}
	if _, err := rng.UniformInt(5.2, 5.8); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("UniformInt(5.2, 5.8) error = %v, expected ErrInvalidRange", err)
	}
}

func TestMustFloatPanicsOnInvalidRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustFloat should panic on an empty range")
		}
	}()
	MustFloat(NewRand(0), 1, 0)
}

func TestRandDeterminism(t *testing.T) {
	a := NewRand(42)
	b := NewRand(42)
	for i := 0; i < 100; i++ {
		va, _ := a.UniformFloat(0, 1)
		vb, _ := b.UniformFloat(0, 1)
		if va != vb {
			t.Fatalf("draw %d differs: %f vs %f", i, va, vb)
		}
	}
}
