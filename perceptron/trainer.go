package perceptron

// Sample is one labeled 2D training example
type Sample struct {
	X1    float64
	X2    float64
	Label int // 0 or 1
}

// WeightSnapshot records the decision boundary after one sample was visited
type WeightSnapshot struct {
	W1   float64
	W2   float64
	Bias float64
}

// State is one perceptron trajectory. History records a snapshot per visited
// sample (not per update), so playback can scrub through every step even
// when the prediction was already correct.
type State struct {
	Weights         [2]float64
	Bias            float64
	Epoch           int
	StepInEpoch     int
	ErrorsThisEpoch int
	Converged       bool
	History         []WeightSnapshot
}

// NewState starts a trajectory from zero weights
func NewState() State {
	return State{History: []WeightSnapshot{{}}}
}

// Step visits the next sample and applies the perceptron learning rule:
//
//	z = w1*x1 + w2*x2 + b
//	prediction = 1 if z >= 0 else 0
//	error = label - prediction
//	w += lr * error * x ; b += lr * error
//
// The epoch counter advances when the last sample of the dataset has been
// visited, and Converged latches once a full epoch finishes with zero
// errors. A converged state is returned unchanged. Convergence is only
// guaranteed for linearly separable data; XOR loops forever, which is the
// behavior the visualization demonstrates.
func Step(state State, dataset []Sample, learningRate float64) State {
	if state.Converged || len(dataset) == 0 {
		return state
	}

	s := dataset[state.StepInEpoch]
	z := state.Weights[0]*s.X1 + state.Weights[1]*s.X2 + state.Bias
	prediction := 0
	if z >= 0 {
		prediction = 1
	}
	err := s.Label - prediction

	next := state
	next.Weights[0] += learningRate * float64(err) * s.X1
	next.Weights[1] += learningRate * float64(err) * s.X2
	next.Bias += learningRate * float64(err)
	if err != 0 {
		next.ErrorsThisEpoch++
	}

	history := make([]WeightSnapshot, len(state.History), len(state.History)+1)
	copy(history, state.History)
	next.History = append(history, WeightSnapshot{
		W1:   next.Weights[0],
		W2:   next.Weights[1],
		Bias: next.Bias,
	})

	next.StepInEpoch++
	if next.StepInEpoch == len(dataset) {
		next.StepInEpoch = 0
		next.Epoch++
		next.Converged = next.ErrorsThisEpoch == 0
		next.ErrorsThisEpoch = 0
	}
	return next
}
