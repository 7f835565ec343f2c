package optimizer

// DefaultMomentumConfig returns default heavy-ball momentum configuration
func DefaultMomentumConfig() Config {
	return Config{
		Method:       Momentum,
		LearningRate: 0.01,
		MomentumBeta: 0.9,
	}
}

// stepMomentum applies one heavy-ball update:
//
//	velocity' = beta * velocity + grad(position)
//	position' = position - lr * velocity'
//
// A missing velocity (fresh state) is treated as the zero vector, making the
// first momentum step identical to an SGD step.
func stepMomentum(state State, grad GradFunc, cfg Config) State {
	g := grad(state.Position)
	n := len(state.Position)

	vel := cloneVec(state.Velocity, n)
	newPos := make([]float64, n)
	for i := 0; i < n; i++ {
		vel[i] = cfg.MomentumBeta*vel[i] + g[i]
		newPos[i] = state.Position[i] - cfg.LearningRate*vel[i]
	}

	next := advance(state, newPos)
	next.Velocity = vel
	return next
}
