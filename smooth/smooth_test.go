package smooth

import (
	"math"
	"testing"
)

func TestIntegrator(t *testing.T) {
	in := New(0.5)
	if _, ok := in.Value(); ok {
		t.Fatal("Value reported a sample before any Next")
	}

	steps := []struct{ x, want float64 }{
		{10, 10},
		{20, 15},
		{20, 17.5},
		{0, 8.75},
	}
	for i, s := range steps {
		if got := in.Next(s.x); math.Abs(got-s.want) > 1e-9 {
			t.Errorf("step %d: Next(%v) = %v, want %v", i, s.x, got, s.want)
		}
	}
	if v, ok := in.Value(); !ok || v != 8.75 {
		t.Errorf("Value() = %v, %v", v, ok)
	}

	in.Reset()
	if got := in.Next(3); got != 3 {
		t.Errorf("Next after Reset = %v, want 3", got)
	}
}

func TestIntegrator_Clamp(t *testing.T) {
	keep := New[float32](7)
	keep.Next(1)
	if got := keep.Next(100); got != 1 {
		t.Errorf("alpha clamped to 1: Next = %v, want 1", got)
	}

	follow := New[float32](-1)
	follow.Next(1)
	if got := follow.Next(100); got != 100 {
		t.Errorf("alpha clamped to 0: Next = %v, want 100", got)
	}
}
