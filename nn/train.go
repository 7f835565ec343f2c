package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/tsawler/go-mlstep/async"
	"github.com/tsawler/go-mlstep/layers"
)

// EpochResult summarizes one pass over the training data
type EpochResult struct {
	Loss     float64
	Accuracy float64
}

// TrainEpoch runs one full pass of mini-batch gradient descent. The batcher
// decides batch boundaries and shuffle order; loss is the batch-size-weighted
// mean of per-batch training loss, and accuracy is measured over the whole
// dataset after the epoch's updates.
func (n *Network) TrainEpoch(inputs, labels [][]float64, learningRate float64, batcher *async.Batcher) (EpochResult, error) {
	if len(inputs) == 0 || len(inputs) != len(labels) {
		return EpochResult{}, fmt.Errorf("need matching non-empty inputs and labels, got %d and %d", len(inputs), len(labels))
	}

	lossSum := 0.0
	for _, batch := range batcher.Batches() {
		x, err := gatherRows(inputs, batch, n.spec.InputSize)
		if err != nil {
			return EpochResult{}, err
		}
		t, err := gatherRows(labels, batch, n.spec.OutputSize)
		if err != nil {
			return EpochResult{}, err
		}
		lossSum += n.trainBatch(x, t, learningRate) * float64(len(batch))
	}

	x, err := rowsToDense(inputs, n.spec.InputSize)
	if err != nil {
		return EpochResult{}, err
	}
	t, err := rowsToDense(labels, n.spec.OutputSize)
	if err != nil {
		return EpochResult{}, err
	}

	return EpochResult{
		Loss:     lossSum / float64(len(inputs)),
		Accuracy: Accuracy(n.Forward(x), t),
	}, nil
}

// trainBatch performs forward, backward and parameter update for one batch
// and returns the batch's pre-update loss.
func (n *Network) trainBatch(x, target *mat.Dense, learningRate float64) float64 {
	acts := n.forwardCollect(x)
	pred := acts[len(acts)-1]
	loss := n.loss.Forward(pred, target)

	delta := n.loss.Delta(pred, target)
	for i := len(n.units) - 1; i >= 0; i-- {
		u := n.units[i]
		in := acts[i]

		switch u.kind {
		case layers.Dense:
			var dw mat.Dense
			dw.Mul(in.T(), delta)

			rows, cols := delta.Dims()
			db := make([]float64, cols)
			for r := 0; r < rows; r++ {
				for c := 0; c < cols; c++ {
					db[c] += delta.At(r, c)
				}
			}

			var dx mat.Dense
			dx.Mul(delta, u.w.T())

			// Update after computing dx: dx must see the pre-update weights.
			var scaled mat.Dense
			scaled.Scale(learningRate, &dw)
			u.w.Sub(u.w, &scaled)
			for c := range u.b {
				u.b[c] -= learningRate * db[c]
			}

			delta = &dx

		case layers.ReLU:
			var next mat.Dense
			next.Apply(func(r, c int, v float64) float64 {
				if in.At(r, c) > 0 {
					return v
				}
				return 0
			}, delta)
			delta = &next

		case layers.Sigmoid:
			out := acts[i+1]
			var next mat.Dense
			next.Apply(func(r, c int, v float64) float64 {
				s := out.At(r, c)
				return v * s * (1 - s)
			}, delta)
			delta = &next

		case layers.Tanh:
			out := acts[i+1]
			var next mat.Dense
			next.Apply(func(r, c int, v float64) float64 {
				th := out.At(r, c)
				return v * (1 - th*th)
			}, delta)
			delta = &next
		}
	}
	return loss
}

// gatherRows packs selected dataset rows into a batch matrix
func gatherRows(rows [][]float64, indices []int, width int) (*mat.Dense, error) {
	data := make([]float64, 0, len(indices)*width)
	for _, idx := range indices {
		if len(rows[idx]) != width {
			return nil, fmt.Errorf("row %d has width %d, expected %d", idx, len(rows[idx]), width)
		}
		data = append(data, rows[idx]...)
	}
	return mat.NewDense(len(indices), width, data), nil
}
