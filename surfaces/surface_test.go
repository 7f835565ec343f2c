package surfaces

import (
	"math"
	"testing"
)

// TestEvaluateDeterministic verifies repeated evaluation is bit-identical
func TestEvaluateDeterministic(t *testing.T) {
	types := []Type{Bowl, Saddle, Rosenbrock, Beale}
	probes := [][2]float64{{0, 0}, {1, 1}, {-2.5, 3.7}, {0.001, -0.001}, {100, -100}}

	for _, st := range types {
		for _, p := range probes {
			a := Evaluate(p[0], p[1], st)
			b := Evaluate(p[0], p[1], st)
			if a != b {
				t.Errorf("%v at (%v,%v): got %v then %v", st, p[0], p[1], a, b)
			}
		}
	}
}

// TestKnownMinima checks each surface at its analytic minimum (or saddle point)
func TestKnownMinima(t *testing.T) {
	cases := []struct {
		surface Type
		x, y    float64
		want    float64
	}{
		{Bowl, 0, 0, 0},
		{Saddle, 0, 0, 0},
		{Rosenbrock, 1, 1, 0},
		{Beale, 3, 0.5, 0},
	}

	for _, c := range cases {
		got := Evaluate(c.x, c.y, c.surface)
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("%v at (%v,%v): expected %v, got %v", c.surface, c.x, c.y, c.want, got)
		}
	}
}

func TestEvaluateValues(t *testing.T) {
	if got := Evaluate(2, 3, Bowl); got != 13 {
		t.Errorf("Bowl(2,3): expected 13, got %v", got)
	}
	if got := Evaluate(2, 3, Saddle); got != -5 {
		t.Errorf("Saddle(2,3): expected -5, got %v", got)
	}
	// (1-0)^2 + 100*(1-0)^2
	if got := Evaluate(0, 1, Rosenbrock); got != 101 {
		t.Errorf("Rosenbrock(0,1): expected 101, got %v", got)
	}
}

// TestGradientMatchesNumeric cross-checks every analytic gradient against
// central finite differences
func TestGradientMatchesNumeric(t *testing.T) {
	types := []Type{Bowl, Saddle, Rosenbrock, Beale}
	probes := [][2]float64{{0.5, 0.5}, {-1.2, 2.1}, {2, -0.3}, {0.1, 0.9}}

	for _, st := range types {
		f := Func(st)
		for _, p := range probes {
			gx, gy := Gradient(p[0], p[1], st)
			nx, ny := NumericGradient(f, p[0], p[1])
			if math.Abs(gx-nx) > 1e-4 || math.Abs(gy-ny) > 1e-4 {
				t.Errorf("%v at (%v,%v): analytic (%v,%v) vs numeric (%v,%v)",
					st, p[0], p[1], gx, gy, nx, ny)
			}
		}
	}
}

func TestGradientZeroAtMinimum(t *testing.T) {
	cases := []struct {
		surface Type
		x, y    float64
	}{
		{Bowl, 0, 0},
		{Rosenbrock, 1, 1},
		{Beale, 3, 0.5},
	}

	for _, c := range cases {
		gx, gy := Gradient(c.x, c.y, c.surface)
		if math.Abs(gx) > 1e-10 || math.Abs(gy) > 1e-10 {
			t.Errorf("%v: expected zero gradient at minimum, got (%v,%v)", c.surface, gx, gy)
		}
	}
}

func TestClampForDisplay(t *testing.T) {
	if got := ClampForDisplay(25, 20); got != 20 {
		t.Errorf("expected 20, got %v", got)
	}
	if got := ClampForDisplay(-25, 20); got != -20 {
		t.Errorf("expected -20, got %v", got)
	}
	if got := ClampForDisplay(7, 20); got != 7 {
		t.Errorf("expected 7, got %v", got)
	}
}

// TestEvaluateUnclamped guards the render-boundary policy: surface math is
// never clamped internally, however large the value.
func TestEvaluateUnclamped(t *testing.T) {
	got := Evaluate(-10, 10, Rosenbrock)
	if got < 1e5 {
		t.Errorf("expected large unclamped value, got %v", got)
	}
}
