package layers

import (
	"testing"
)

// TestBuilderCompile verifies shape propagation and parameter counting for
// the standard 2-4-1 teaching architecture
func TestBuilderCompile(t *testing.T) {
	spec, err := NewModelBuilder(2).
		AddDense(4, "hidden").
		AddTanh("tanh1").
		AddDense(1, "output").
		AddSigmoid("sigmoid1").
		Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if !spec.Compiled {
		t.Error("Expected compiled flag set")
	}
	if spec.InputSize != 2 || spec.OutputSize != 1 {
		t.Errorf("Expected 2 in / 1 out, got %d / %d", spec.InputSize, spec.OutputSize)
	}
	// (2*4 + 4) + (4*1 + 1)
	if spec.TotalParameters != 17 {
		t.Errorf("Expected 17 parameters, got %d", spec.TotalParameters)
	}

	if spec.Layers[1].InputSize != 4 || spec.Layers[1].OutputSize != 4 {
		t.Errorf("Activation must pass width through, got %d -> %d",
			spec.Layers[1].InputSize, spec.Layers[1].OutputSize)
	}
	if spec.Layers[2].InputSize != 4 {
		t.Errorf("Second dense must infer input 4, got %d", spec.Layers[2].InputSize)
	}
}

func TestCompileRejectsEmptyModel(t *testing.T) {
	if _, err := NewModelBuilder(2).Compile(); err == nil {
		t.Error("Expected error for model with no layers")
	}
}

func TestCompileRejectsActivationOnlyModel(t *testing.T) {
	if _, err := NewModelBuilder(2).AddReLU("r").Compile(); err == nil {
		t.Error("Expected error for model without a dense layer")
	}
}

func TestCompileRejectsBadInputSize(t *testing.T) {
	if _, err := NewModelBuilder(0).AddDense(1, "d").Compile(); err == nil {
		t.Error("Expected error for non-positive input size")
	}
}

func TestCompileRejectsBadOutputSize(t *testing.T) {
	builder := NewModelBuilder(2).AddLayer(LayerSpec{Type: Dense, Name: "d"})
	if _, err := builder.Compile(); err == nil {
		t.Error("Expected error for dense layer without output_size")
	}
}

// TestCloneIsDeep verifies a cloned spec shares no parameter maps
func TestCloneIsDeep(t *testing.T) {
	spec, err := NewModelBuilder(2).AddDense(3, "d").Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	clone := spec.Clone()
	clone.Layers[0].Parameters["output_size"] = 99
	if spec.Layers[0].Parameters["output_size"] == 99 {
		t.Error("Clone shares parameter map with original")
	}
}

func TestLayerTypeString(t *testing.T) {
	cases := map[LayerType]string{
		Dense:   "Dense",
		ReLU:    "ReLU",
		Sigmoid: "Sigmoid",
		Tanh:    "Tanh",
	}
	for lt, want := range cases {
		if lt.String() != want {
			t.Errorf("Expected %q, got %q", want, lt.String())
		}
	}
}
