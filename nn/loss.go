package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Loss defines methods that all loss functions must implement. Forward
// reports the scalar loss; Delta returns dL/dPrediction for backpropagation.
type Loss interface {
	Forward(predicted, target *mat.Dense) float64
	Delta(predicted, target *mat.Dense) *mat.Dense
	Name() string
}

// MSELoss implements mean squared error: L = mean((pred - target)^2)
type MSELoss struct{}

func (MSELoss) Name() string { return "MSE" }

func (MSELoss) Forward(predicted, target *mat.Dense) float64 {
	rows, cols := predicted.Dims()
	sum := 0.0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			d := predicted.At(r, c) - target.At(r, c)
			sum += d * d
		}
	}
	return sum / float64(rows*cols)
}

func (MSELoss) Delta(predicted, target *mat.Dense) *mat.Dense {
	rows, cols := predicted.Dims()
	scale := 2.0 / float64(rows*cols)
	var delta mat.Dense
	delta.Sub(predicted, target)
	delta.Scale(scale, &delta)
	return &delta
}

// BCELoss implements binary cross-entropy over sigmoid outputs. Predictions
// are clamped away from 0 and 1 so the log terms stay finite.
type BCELoss struct {
	Epsilon float64 // clamp margin; <= 0 means 1e-12
}

func (BCELoss) Name() string { return "BCE" }

func (l BCELoss) eps() float64 {
	if l.Epsilon > 0 {
		return l.Epsilon
	}
	return 1e-12
}

func (l BCELoss) Forward(predicted, target *mat.Dense) float64 {
	rows, cols := predicted.Dims()
	eps := l.eps()
	sum := 0.0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p := clamp(predicted.At(r, c), eps, 1-eps)
			t := target.At(r, c)
			sum += -(t*math.Log(p) + (1-t)*math.Log(1-p))
		}
	}
	return sum / float64(rows*cols)
}

func (l BCELoss) Delta(predicted, target *mat.Dense) *mat.Dense {
	rows, cols := predicted.Dims()
	eps := l.eps()
	scale := 1.0 / float64(rows*cols)
	delta := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p := clamp(predicted.At(r, c), eps, 1-eps)
			t := target.At(r, c)
			delta.Set(r, c, scale*(p-t)/(p*(1-p)))
		}
	}
	return delta
}

// Accuracy measures the fraction of rows classified correctly: thresholding
// at 0.5 for single-output models, argmax agreement otherwise.
func Accuracy(predicted, target *mat.Dense) float64 {
	rows, cols := predicted.Dims()
	if rows == 0 {
		return 0
	}
	correct := 0
	for r := 0; r < rows; r++ {
		if cols == 1 {
			p := 0
			if predicted.At(r, 0) >= 0.5 {
				p = 1
			}
			t := 0
			if target.At(r, 0) >= 0.5 {
				t = 1
			}
			if p == t {
				correct++
			}
		} else if argmaxRow(predicted, r, cols) == argmaxRow(target, r, cols) {
			correct++
		}
	}
	return float64(correct) / float64(rows)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
