package nn

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/tsawler/go-mlstep/layers"
)

// Network is a small dense multilayer perceptron compiled from a
// layers.ModelSpec. It lives inside the training context; nothing outside
// that context ever holds a reference to it. Callers get deep-copied
// snapshots instead.
type Network struct {
	spec  *layers.ModelSpec
	units []unit
	loss  Loss
}

// unit is one executable stage: a dense affine map or an activation
type unit struct {
	kind layers.LayerType
	w    *mat.Dense // dense only: InputSize x OutputSize
	b    []float64  // dense only: OutputSize
}

// New builds a network from a compiled spec with seeded Xavier-uniform
// initialization, so identical (spec, seed) pairs produce identical models.
func New(spec *layers.ModelSpec, seed int64) (*Network, error) {
	if spec == nil || !spec.Compiled {
		return nil, fmt.Errorf("model spec must be compiled before instantiation")
	}

	rng := rand.New(rand.NewSource(seed))
	n := &Network{
		spec:  spec.Clone(),
		units: make([]unit, 0, len(spec.Layers)),
		loss:  MSELoss{},
	}

	for _, layer := range spec.Layers {
		switch layer.Type {
		case layers.Dense:
			in, out := layer.InputSize, layer.OutputSize
			limit := math.Sqrt(6.0 / float64(in+out))
			data := make([]float64, in*out)
			for i := range data {
				data[i] = (rng.Float64()*2 - 1) * limit
			}
			n.units = append(n.units, unit{
				kind: layers.Dense,
				w:    mat.NewDense(in, out, data),
				b:    make([]float64, out),
			})
		case layers.ReLU, layers.Sigmoid, layers.Tanh:
			n.units = append(n.units, unit{kind: layer.Type})
		default:
			return nil, fmt.Errorf("layer %q: unsupported layer type %v", layer.Name, layer.Type)
		}
	}
	return n, nil
}

// SetLoss replaces the training loss (MSE by default)
func (n *Network) SetLoss(loss Loss) {
	n.loss = loss
}

// Spec returns a copy of the architecture this network was built from
func (n *Network) Spec() *layers.ModelSpec {
	return n.spec.Clone()
}

// forwardCollect runs a batch through the network keeping every intermediate
// activation; acts[i] is the input to unit i, acts[len(units)] the output.
func (n *Network) forwardCollect(x *mat.Dense) []*mat.Dense {
	acts := make([]*mat.Dense, 0, len(n.units)+1)
	acts = append(acts, x)

	cur := x
	for _, u := range n.units {
		var next mat.Dense
		switch u.kind {
		case layers.Dense:
			next.Mul(cur, u.w)
			rows, cols := next.Dims()
			for r := 0; r < rows; r++ {
				for c := 0; c < cols; c++ {
					next.Set(r, c, next.At(r, c)+u.b[c])
				}
			}
		case layers.ReLU:
			next.Apply(func(_, _ int, v float64) float64 {
				if v > 0 {
					return v
				}
				return 0
			}, cur)
		case layers.Sigmoid:
			next.Apply(func(_, _ int, v float64) float64 {
				return 1 / (1 + math.Exp(-v))
			}, cur)
		case layers.Tanh:
			next.Apply(func(_, _ int, v float64) float64 {
				return math.Tanh(v)
			}, cur)
		}
		cur = &next
		acts = append(acts, cur)
	}
	return acts
}

// Forward runs a batch through the network and returns the output matrix
func (n *Network) Forward(x *mat.Dense) *mat.Dense {
	acts := n.forwardCollect(x)
	return acts[len(acts)-1]
}

// Predict evaluates the network on a slice of input rows
func (n *Network) Predict(inputs [][]float64) ([][]float64, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	x, err := rowsToDense(inputs, n.spec.InputSize)
	if err != nil {
		return nil, err
	}
	out := n.Forward(x)
	rows, cols := out.Dims()
	result := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		result[r] = make([]float64, cols)
		for c := 0; c < cols; c++ {
			result[r][c] = out.At(r, c)
		}
	}
	return result, nil
}

// PredictGrid evaluates the model over a resolution x resolution grid in
// row-major order, row 0 at rangeY[0] and rows ascending in y. For a single
// output the raw value is returned; for multi-output models the argmax class
// index is returned. Only 2-input models can be rendered on a plane.
func (n *Network) PredictGrid(resolution int, rangeX, rangeY [2]float64) ([]float64, error) {
	if n.spec.InputSize != 2 {
		return nil, fmt.Errorf("grid prediction requires a 2-input model, have %d inputs", n.spec.InputSize)
	}
	if resolution <= 0 {
		return nil, fmt.Errorf("grid resolution must be positive, got %d", resolution)
	}

	stepX, stepY := 0.0, 0.0
	if resolution > 1 {
		stepX = (rangeX[1] - rangeX[0]) / float64(resolution-1)
		stepY = (rangeY[1] - rangeY[0]) / float64(resolution-1)
	}

	data := make([]float64, resolution*resolution*2)
	i := 0
	for row := 0; row < resolution; row++ {
		y := rangeY[0] + float64(row)*stepY
		for col := 0; col < resolution; col++ {
			data[i] = rangeX[0] + float64(col)*stepX
			data[i+1] = y
			i += 2
		}
	}

	out := n.Forward(mat.NewDense(resolution*resolution, 2, data))
	rows, cols := out.Dims()
	grid := make([]float64, rows)
	for r := 0; r < rows; r++ {
		if cols == 1 {
			grid[r] = out.At(r, 0)
			continue
		}
		grid[r] = float64(argmaxRow(out, r, cols))
	}
	return grid, nil
}

func argmaxRow(m *mat.Dense, r, cols int) int {
	best := 0
	bestV := m.At(r, 0)
	for c := 1; c < cols; c++ {
		if v := m.At(r, c); v > bestV {
			bestV = v
			best = c
		}
	}
	return best
}

// rowsToDense packs row slices into a dense matrix, validating widths
func rowsToDense(rows [][]float64, width int) (*mat.Dense, error) {
	data := make([]float64, 0, len(rows)*width)
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has width %d, expected %d", i, len(row), width)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), width, data), nil
}
