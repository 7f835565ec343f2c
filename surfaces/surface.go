package surfaces

// Type identifies one of the built-in loss surfaces
type Type int

const (
	Bowl Type = iota
	Saddle
	Rosenbrock
	Beale
)

func (t Type) String() string {
	switch t {
	case Bowl:
		return "Bowl"
	case Saddle:
		return "Saddle"
	case Rosenbrock:
		return "Rosenbrock"
	case Beale:
		return "Beale"
	default:
		return "Unknown"
	}
}

// rosenbrockScale is the classic valley coefficient. The textbook value is
// 100; anything lower tames the valley walls for tighter display ranges
// without changing the minimum at (1,1).
const rosenbrockScale = 100.0

// Func2D is a scalar function of two variables
type Func2D func(x, y float64) float64

// Evaluate computes the surface height at (x, y).
// Pure and deterministic: identical inputs always produce identical outputs.
// Output is never clamped here; display clamping belongs to the renderer.
func Evaluate(x, y float64, t Type) float64 {
	switch t {
	case Bowl:
		return x*x + y*y
	case Saddle:
		return x*x - y*y
	case Rosenbrock:
		a := 1 - x
		b := y - x*x
		return a*a + rosenbrockScale*b*b
	case Beale:
		t1 := 1.5 - x + x*y
		t2 := 2.25 - x + x*y*y
		t3 := 2.625 - x + x*y*y*y
		return t1*t1 + t2*t2 + t3*t3
	default:
		return 0
	}
}

// Func returns Evaluate bound to a single surface, suitable for callers that
// want a plain scalar function (numeric differentiation, plotting).
func Func(t Type) Func2D {
	return func(x, y float64) float64 {
		return Evaluate(x, y, t)
	}
}

// ClampForDisplay limits a surface value to [-limit, limit] for rendering.
// Optimizer math must never go through this; it exists only so the render
// boundary has one blessed place to tame Rosenbrock-style value ranges.
func ClampForDisplay(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
