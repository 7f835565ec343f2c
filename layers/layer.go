package layers

import "fmt"

// LayerType represents the type of neural network layer
type LayerType int

const (
	Dense LayerType = iota
	ReLU
	Sigmoid
	Tanh
)

func (lt LayerType) String() string {
	switch lt {
	case Dense:
		return "Dense"
	case ReLU:
		return "ReLU"
	case Sigmoid:
		return "Sigmoid"
	case Tanh:
		return "Tanh"
	default:
		return "Unknown"
	}
}

// LayerSpec defines layer configuration for the training context.
// This is pure configuration - no execution logic.
type LayerSpec struct {
	Type       LayerType      `json:"type"`
	Name       string         `json:"name"`
	Parameters map[string]int `json:"parameters"`

	// Shape information (computed during model compilation)
	InputSize  int `json:"input_size,omitempty"`
	OutputSize int `json:"output_size,omitempty"`
}

// ModelSpec defines a complete network as layer configuration. It is the
// architecture payload sent across the training-context boundary: plain data,
// structurally copyable, no live references.
type ModelSpec struct {
	Layers []LayerSpec `json:"layers"`

	// Compiled model information
	InputSize       int  `json:"input_size"`
	OutputSize      int  `json:"output_size"`
	TotalParameters int  `json:"total_parameters"`
	Compiled        bool `json:"compiled"`
}

// ModelBuilder helps construct model specifications
type ModelBuilder struct {
	layers    []LayerSpec
	inputSize int
}

// NewModelBuilder creates a builder for a model with the given input width
func NewModelBuilder(inputSize int) *ModelBuilder {
	return &ModelBuilder{inputSize: inputSize}
}

// AddLayer adds a layer to the model
func (mb *ModelBuilder) AddLayer(layer LayerSpec) *ModelBuilder {
	mb.layers = append(mb.layers, layer)
	return mb
}

// AddDense adds a fully connected layer; the input size is computed during
// compilation from the preceding layer
func (mb *ModelBuilder) AddDense(outputSize int, name string) *ModelBuilder {
	return mb.AddLayer(LayerSpec{
		Type: Dense,
		Name: name,
		Parameters: map[string]int{
			"output_size": outputSize,
		},
	})
}

// AddReLU adds a ReLU activation
func (mb *ModelBuilder) AddReLU(name string) *ModelBuilder {
	return mb.AddLayer(LayerSpec{Type: ReLU, Name: name})
}

// AddSigmoid adds a sigmoid activation
func (mb *ModelBuilder) AddSigmoid(name string) *ModelBuilder {
	return mb.AddLayer(LayerSpec{Type: Sigmoid, Name: name})
}

// AddTanh adds a tanh activation
func (mb *ModelBuilder) AddTanh(name string) *ModelBuilder {
	return mb.AddLayer(LayerSpec{Type: Tanh, Name: name})
}

// Compile validates the layer stack and computes per-layer shapes and the
// total parameter count. The returned spec is self-contained configuration.
func (mb *ModelBuilder) Compile() (*ModelSpec, error) {
	if mb.inputSize <= 0 {
		return nil, fmt.Errorf("input size must be positive, got %d", mb.inputSize)
	}
	if len(mb.layers) == 0 {
		return nil, fmt.Errorf("model must have at least one layer")
	}

	spec := &ModelSpec{
		Layers:    make([]LayerSpec, len(mb.layers)),
		InputSize: mb.inputSize,
	}
	copy(spec.Layers, mb.layers)

	width := mb.inputSize
	sawDense := false
	for i := range spec.Layers {
		layer := &spec.Layers[i]
		layer.InputSize = width

		switch layer.Type {
		case Dense:
			out, ok := layer.Parameters["output_size"]
			if !ok || out <= 0 {
				return nil, fmt.Errorf("layer %q: dense layer requires positive output_size", layer.Name)
			}
			layer.OutputSize = out
			spec.TotalParameters += width*out + out // weights + bias
			width = out
			sawDense = true
		case ReLU, Sigmoid, Tanh:
			layer.OutputSize = width
		default:
			return nil, fmt.Errorf("layer %q: unsupported layer type %v", layer.Name, layer.Type)
		}
	}

	if !sawDense {
		return nil, fmt.Errorf("model must contain at least one dense layer")
	}

	spec.OutputSize = width
	spec.Compiled = true
	return spec, nil
}

// Clone deep-copies a spec so it can cross the context boundary without
// sharing the Parameters maps.
func (ms *ModelSpec) Clone() *ModelSpec {
	out := *ms
	out.Layers = make([]LayerSpec, len(ms.Layers))
	for i, layer := range ms.Layers {
		out.Layers[i] = layer
		if layer.Parameters != nil {
			params := make(map[string]int, len(layer.Parameters))
			for k, v := range layer.Parameters {
				params[k] = v
			}
			out.Layers[i].Parameters = params
		}
	}
	return &out
}

// Summary returns a one-line description for logging
func (ms *ModelSpec) Summary() string {
	return fmt.Sprintf("layers=%d in=%d out=%d params=%d",
		len(ms.Layers), ms.InputSize, ms.OutputSize, ms.TotalParameters)
}
