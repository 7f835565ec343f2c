package nn

import "github.com/tsawler/go-mlstep/layers"

// LayerWeights is a serializable copy of one dense layer's parameters.
// Weights is indexed [input][output].
type LayerWeights struct {
	Name    string      `json:"name"`
	Weights [][]float64 `json:"weights"`
	Biases  []float64   `json:"biases"`
}

// Snapshot deep-copies every dense layer's parameters for visualization.
// The returned slices share no memory with the live model, so callers on the
// other side of the context boundary can hold them indefinitely.
func (n *Network) Snapshot() []LayerWeights {
	var out []LayerWeights
	denseIdx := 0
	for _, layer := range n.spec.Layers {
		if layer.Type != layers.Dense {
			continue
		}
		u := n.findDense(denseIdx)
		denseIdx++

		rows, cols := u.w.Dims()
		weights := make([][]float64, rows)
		for r := 0; r < rows; r++ {
			weights[r] = make([]float64, cols)
			for c := 0; c < cols; c++ {
				weights[r][c] = u.w.At(r, c)
			}
		}
		out = append(out, LayerWeights{
			Name:    layer.Name,
			Weights: weights,
			Biases:  append([]float64(nil), u.b...),
		})
	}
	return out
}

// findDense returns the idx-th dense unit
func (n *Network) findDense(idx int) unit {
	seen := 0
	for _, u := range n.units {
		if u.kind == layers.Dense {
			if seen == idx {
				return u
			}
			seen++
		}
	}
	return unit{}
}
