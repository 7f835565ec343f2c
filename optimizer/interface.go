package optimizer

// GradFunc computes the gradient of the objective at a position.
// The returned slice must have the same length as the input.
type GradFunc func(pos []float64) []float64

// Method selects the update rule applied by Step
type Method int

const (
	SGD Method = iota
	Momentum
	Adam
)

func (m Method) String() string {
	switch m {
	case SGD:
		return "SGD"
	case Momentum:
		return "Momentum"
	case Adam:
		return "Adam"
	default:
		return "Unknown"
	}
}

// Config holds hyperparameters for all update rules. Fields irrelevant to
// the selected Method are ignored. A non-positive learning rate is a caller
// contract violation, not a runtime failure: Step never validates or panics,
// and divergence (NaN/Inf positions) is an expected, renderable outcome.
type Config struct {
	Method       Method
	LearningRate float64
	MomentumBeta float64 // momentum only, in [0,1)
	Beta1        float64 // adam only
	Beta2        float64 // adam only
	Epsilon      float64 // adam only
}

// State is one optimizer trajectory. It is a value the caller owns outright:
// Step returns a fresh State and never mutates its input, so the rendering
// layer can hold the single live copy and replace it wholesale each tick.
type State struct {
	Position     []float64
	Velocity     []float64 // momentum only
	FirstMoment  []float64 // adam only
	SecondMoment []float64 // adam only
	StepCount    int
	Path         [][]float64
}

// NewState starts a trajectory at the given position. Path[0] is always the
// initial position, so StepCount == len(Path)-1 holds from the first step on.
func NewState(initial []float64) State {
	pos := append([]float64(nil), initial...)
	return State{
		Position: pos,
		Path:     [][]float64{append([]float64(nil), pos...)},
	}
}

// Step advances the trajectory by one update of the configured method.
// Exactly one new position is appended to Path and StepCount increments by
// one; the input state is left untouched.
func Step(state State, grad GradFunc, cfg Config) State {
	switch cfg.Method {
	case Momentum:
		return stepMomentum(state, grad, cfg)
	case Adam:
		return stepAdam(state, grad, cfg)
	default:
		return stepSGD(state, grad, cfg)
	}
}

// cloneVec copies a vector, mapping nil to a zero vector of length n
func cloneVec(v []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, v)
	return out
}

// advance produces the successor state shared by every update rule: a copied
// Path with the new position appended, and the step counter bumped.
func advance(state State, newPos []float64) State {
	path := make([][]float64, len(state.Path), len(state.Path)+1)
	copy(path, state.Path)
	path = append(path, append([]float64(nil), newPos...))

	next := state
	next.Position = newPos
	next.Path = path
	next.StepCount = state.StepCount + 1
	return next
}
