package surfaces

import (
	"gonum.org/v1/gonum/diff/fd"
)

// Gradient computes the analytic gradient of the surface at (x, y).
// Like Evaluate, values are unclamped and NaN/Inf propagate freely.
func Gradient(x, y float64, t Type) (gx, gy float64) {
	switch t {
	case Bowl:
		return 2 * x, 2 * y
	case Saddle:
		return 2 * x, -2 * y
	case Rosenbrock:
		// d/dx [(1-x)^2 + c(y-x^2)^2] = -2(1-x) - 4cx(y-x^2)
		// d/dy [...] = 2c(y-x^2)
		b := y - x*x
		return -2*(1-x) - 4*rosenbrockScale*x*b, 2 * rosenbrockScale * b
	case Beale:
		t1 := 1.5 - x + x*y
		t2 := 2.25 - x + x*y*y
		t3 := 2.625 - x + x*y*y*y
		gx = 2*t1*(y-1) + 2*t2*(y*y-1) + 2*t3*(y*y*y-1)
		gy = 2*t1*x + 2*t2*2*x*y + 2*t3*3*x*y*y
		return gx, gy
	default:
		return 0, 0
	}
}

// NumericGradient approximates the gradient of an arbitrary 2D function with
// central finite differences. Used to drive optimizers over caller-supplied
// surfaces that have no closed-form gradient, and to cross-check the analytic
// gradients in tests.
func NumericGradient(f Func2D, x, y float64) (gx, gy float64) {
	grad := make([]float64, 2)
	fd.Gradient(grad, func(p []float64) float64 {
		return f(p[0], p[1])
	}, []float64{x, y}, &fd.Settings{Formula: fd.Central})
	return grad[0], grad[1]
}

// GradFunc adapts a surface's analytic gradient to the vector form consumed
// by the optimizer package: position in, gradient out.
func GradFunc(t Type) func(pos []float64) []float64 {
	return func(pos []float64) []float64 {
		gx, gy := Gradient(pos[0], pos[1], t)
		return []float64{gx, gy}
	}
}
