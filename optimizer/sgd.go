package optimizer

// DefaultSGDConfig returns default vanilla gradient descent configuration
func DefaultSGDConfig() Config {
	return Config{
		Method:       SGD,
		LearningRate: 0.01,
	}
}

// stepSGD applies one vanilla gradient descent update:
//
//	position' = position - lr * grad(position)
func stepSGD(state State, grad GradFunc, cfg Config) State {
	g := grad(state.Position)

	newPos := make([]float64, len(state.Position))
	for i := range newPos {
		newPos[i] = state.Position[i] - cfg.LearningRate*g[i]
	}

	return advance(state, newPos)
}
