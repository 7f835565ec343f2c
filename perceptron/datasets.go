package perceptron

// The gate datasets are the fixed teaching examples: AND and OR are linearly
// separable and converge quickly; XOR is the canonical counterexample.

// ANDGate returns the four-sample AND truth table
func ANDGate() []Sample {
	return []Sample{
		{X1: 0, X2: 0, Label: 0},
		{X1: 1, X2: 0, Label: 0},
		{X1: 0, X2: 1, Label: 0},
		{X1: 1, X2: 1, Label: 1},
	}
}

// ORGate returns the four-sample OR truth table
func ORGate() []Sample {
	return []Sample{
		{X1: 0, X2: 0, Label: 0},
		{X1: 1, X2: 0, Label: 1},
		{X1: 0, X2: 1, Label: 1},
		{X1: 1, X2: 1, Label: 1},
	}
}

// XORGate returns the four-sample XOR truth table, which no single
// perceptron can separate
func XORGate() []Sample {
	return []Sample{
		{X1: 0, X2: 0, Label: 0},
		{X1: 1, X2: 0, Label: 1},
		{X1: 0, X2: 1, Label: 1},
		{X1: 1, X2: 1, Label: 0},
	}
}
