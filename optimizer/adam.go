package optimizer

import "math"

// DefaultAdamConfig returns default Adam optimizer configuration
func DefaultAdamConfig() Config {
	return Config{
		Method:       Adam,
		LearningRate: 0.001,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
	}
}

// stepAdam applies one Adam update. Biased first and second moment estimates
// are carried in the state and bias-corrected with t = StepCount+1 as the
// time index:
//
//	m' = b1*m + (1-b1)*g        mHat = m' / (1 - b1^t)
//	v' = b2*v + (1-b2)*g^2      vHat = v' / (1 - b2^t)
//	position' = position - lr * mHat / (sqrt(vHat) + eps)
func stepAdam(state State, grad GradFunc, cfg Config) State {
	g := grad(state.Position)
	n := len(state.Position)

	m := cloneVec(state.FirstMoment, n)
	v := cloneVec(state.SecondMoment, n)

	t := float64(state.StepCount + 1)
	corr1 := 1 - math.Pow(cfg.Beta1, t)
	corr2 := 1 - math.Pow(cfg.Beta2, t)

	newPos := make([]float64, n)
	for i := 0; i < n; i++ {
		m[i] = cfg.Beta1*m[i] + (1-cfg.Beta1)*g[i]
		v[i] = cfg.Beta2*v[i] + (1-cfg.Beta2)*g[i]*g[i]

		mHat := m[i] / corr1
		vHat := v[i] / corr2
		newPos[i] = state.Position[i] - cfg.LearningRate*mHat/(math.Sqrt(vHat)+cfg.Epsilon)
	}

	next := advance(state, newPos)
	next.FirstMoment = m
	next.SecondMoment = v
	return next
}
