package cluster

import (
	"math/rand"
	"testing"
)

func blobPoints(rng *rand.Rand, centers []Point, perCenter int, spread float64) []Point {
	var points []Point
	for _, c := range centers {
		for i := 0; i < perCenter; i++ {
			points = append(points, Point{
				X: c.X + rng.NormFloat64()*spread,
				Y: c.Y + rng.NormFloat64()*spread,
			})
		}
	}
	return points
}

// TestStepInitializesCentroids verifies the first step samples exactly K
// centroids and assigns every point
func TestStepInitializesCentroids(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	points := blobPoints(rng, []Point{{0, 0}, {10, 10}}, 20, 0.5)

	cfg := DefaultConfig(3)
	cfg.Rand = rng
	state := Step(NewState(points), cfg)

	if len(state.Centroids) != 3 {
		t.Fatalf("Expected 3 centroids, got %d", len(state.Centroids))
	}
	if len(state.Assignments) != len(points) {
		t.Fatalf("Expected %d assignments, got %d", len(points), len(state.Assignments))
	}
	if state.Converged {
		t.Error("Initialization step must not report convergence")
	}
}

// TestAssignmentInvariants verifies assignments stay parallel to points and
// in range on every iteration
func TestAssignmentInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	points := make([]Point, 500)
	for i := range points {
		points[i] = Point{X: rng.Float64() * 10, Y: rng.Float64() * 10}
	}

	cfg := DefaultConfig(8)
	cfg.Rand = rng
	state := NewState(points)

	for i := 0; i < 20; i++ {
		state = Step(state, cfg)
		if len(state.Assignments) != len(points) {
			t.Fatalf("Iteration %d: %d assignments for %d points", i, len(state.Assignments), len(points))
		}
		if len(state.Centroids) != 8 {
			t.Fatalf("Iteration %d: centroid count drifted to %d", i, len(state.Centroids))
		}
		for j, a := range state.Assignments {
			if a < 0 || a >= 8 {
				t.Fatalf("Iteration %d: assignment[%d] = %d out of range", i, j, a)
			}
		}
	}
}

// TestConvergesWithinBound verifies Lloyd iterations settle within a bounded
// number of steps on 500 uniform points with K=8
func TestConvergesWithinBound(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := make([]Point, 500)
	for i := range points {
		points[i] = Point{X: rng.Float64() * 10, Y: rng.Float64() * 10}
	}

	cfg := DefaultConfig(8)
	cfg.Rand = rng
	state := NewState(points)

	converged := false
	for i := 0; i < 100; i++ {
		state = Step(state, cfg)
		if state.Converged {
			converged = true
			break
		}
	}
	if !converged {
		t.Fatal("Expected convergence within 100 iterations")
	}
}

// TestIdempotentAfterConvergence verifies further steps return the state
// unchanged with Converged still true
func TestIdempotentAfterConvergence(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	points := blobPoints(rng, []Point{{0, 0}, {10, 0}, {5, 10}}, 30, 0.3)

	cfg := DefaultConfig(3)
	cfg.Rand = rng
	state := NewState(points)
	for i := 0; i < 100 && !state.Converged; i++ {
		state = Step(state, cfg)
	}
	if !state.Converged {
		t.Fatal("Setup: expected convergence on well-separated blobs")
	}

	again := Step(state, cfg)
	if !again.Converged {
		t.Error("Converged flag must stay true")
	}
	for i := range state.Centroids {
		if again.Centroids[i] != state.Centroids[i] {
			t.Errorf("Centroid %d moved after convergence: %v -> %v", i, state.Centroids[i], again.Centroids[i])
		}
	}
	for i := range state.Assignments {
		if again.Assignments[i] != state.Assignments[i] {
			t.Fatalf("Assignment %d changed after convergence", i)
		}
	}
}

// TestTieBreakLowestIndex verifies equidistant points go to the first
// centroid encountered
func TestTieBreakLowestIndex(t *testing.T) {
	points := []Point{{0, 0}}
	state := State{
		Points:    points,
		Centroids: []Point{{1, 0}, {-1, 0}}, // both at distance 1
	}

	next := Step(state, DefaultConfig(2))
	if next.Assignments[0] != 0 {
		t.Errorf("Expected tie broken to centroid 0, got %d", next.Assignments[0])
	}
}

// TestEmptyClusterRetainsCentroid verifies a centroid with no assigned
// points keeps its previous position instead of relocating
func TestEmptyClusterRetainsCentroid(t *testing.T) {
	points := []Point{{0, 0}, {0.1, 0}, {0, 0.1}}
	far := Point{100, 100}
	state := State{
		Points:    points,
		Centroids: []Point{{0, 0}, far},
	}

	next := Step(state, DefaultConfig(2))
	if next.Centroids[1] != far {
		t.Errorf("Empty cluster centroid moved: %v", next.Centroids[1])
	}
	if len(next.Centroids) != 2 {
		t.Errorf("Centroid count must stay at K, got %d", len(next.Centroids))
	}
}

// TestFewerPointsThanK verifies sampling falls back to replacement but still
// yields exactly K centroids
func TestFewerPointsThanK(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	points := []Point{{1, 1}, {2, 2}}

	cfg := DefaultConfig(5)
	cfg.Rand = rng
	state := Step(NewState(points), cfg)

	if len(state.Centroids) != 5 {
		t.Fatalf("Expected 5 centroids from 2 points, got %d", len(state.Centroids))
	}
	for _, a := range state.Assignments {
		if a < 0 || a >= 5 {
			t.Errorf("Assignment %d out of range", a)
		}
	}
}

// TestParallelMatchesSequential verifies the chunked assignment pass
// computes identical assignments
func TestParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	points := make([]Point, 1000)
	for i := range points {
		points[i] = Point{X: rng.Float64(), Y: rng.Float64()}
	}
	centroids := []Point{{0.2, 0.2}, {0.8, 0.2}, {0.5, 0.8}}

	seq := State{Points: points, Centroids: centroids}
	par := State{Points: points, Centroids: centroids}

	cfgSeq := DefaultConfig(3)
	cfgPar := DefaultConfig(3)
	cfgPar.Parallel = true

	a := Step(seq, cfgSeq)
	b := Step(par, cfgPar)
	for i := range a.Assignments {
		if a.Assignments[i] != b.Assignments[i] {
			t.Fatalf("Assignment %d differs: %d vs %d", i, a.Assignments[i], b.Assignments[i])
		}
	}
}
