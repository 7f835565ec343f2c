package cluster

import (
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ConvergenceTolerance is the squared centroid displacement below which a
// step counts as converged.
const ConvergenceTolerance = 1e-8

// Point is a 2D sample
type Point struct {
	X float64
	Y float64
}

// State is one k-means trajectory. Like the optimizer state, the caller owns
// the single live copy and replaces it wholesale each step.
type State struct {
	Points      []Point
	Centroids   []Point
	Assignments []int
	Converged   bool
}

// Config controls a k-means step
type Config struct {
	K         int
	Tolerance float64 // squared displacement; <= 0 means ConvergenceTolerance
	Parallel  bool    // chunk the assignment pass across CPUs
	Rand      *rand.Rand
}

// DefaultConfig returns a k-means configuration for the given cluster count
func DefaultConfig(k int) Config {
	return Config{K: k, Tolerance: ConvergenceTolerance}
}

// NewState begins a trajectory over a point set with no centroids yet; the
// first Step call initializes them.
func NewState(points []Point) State {
	return State{Points: append([]Point(nil), points...)}
}

// Step performs one Lloyd iteration: assign every point to its nearest
// centroid (squared Euclidean distance, ties to the lowest centroid index),
// then move each centroid to the mean of its assigned points. A centroid
// with no assigned points keeps its previous position. Empty centroids in
// the input state trigger Forgy initialization instead of an update.
//
// Once Converged is true the input state is returned unchanged, so repeated
// calls after convergence are idempotent by construction.
func Step(state State, cfg Config) State {
	if state.Converged {
		return state
	}
	if len(state.Points) == 0 || cfg.K <= 0 {
		return state
	}

	tol := cfg.Tolerance
	if tol <= 0 {
		tol = ConvergenceTolerance
	}

	next := State{
		Points:      state.Points,
		Assignments: make([]int, len(state.Points)),
	}

	if len(state.Centroids) == 0 {
		next.Centroids = initCentroids(state.Points, cfg.K, cfg.Rand)
		assign(next.Points, next.Centroids, next.Assignments, cfg.Parallel)
		return next
	}

	old := state.Centroids
	assign(next.Points, old, next.Assignments, cfg.Parallel)

	// Mean update; empty clusters retain their previous centroid so the
	// centroid count never drifts from K.
	sums := make([]Point, len(old))
	counts := make([]int, len(old))
	for i, a := range next.Assignments {
		sums[a].X += next.Points[i].X
		sums[a].Y += next.Points[i].Y
		counts[a]++
	}

	next.Centroids = make([]Point, len(old))
	converged := true
	for c := range old {
		if counts[c] == 0 {
			next.Centroids[c] = old[c]
			continue
		}
		next.Centroids[c] = Point{
			X: sums[c].X / float64(counts[c]),
			Y: sums[c].Y / float64(counts[c]),
		}
		if sqDist(next.Centroids[c], old[c]) >= tol {
			converged = false
		}
	}
	next.Converged = converged
	return next
}

// initCentroids samples K distinct point indices (Forgy initialization).
// When fewer than K points exist, the shortfall is filled by sampling with
// replacement so the result always has exactly K centroids.
func initCentroids(points []Point, k int, rng *rand.Rand) []Point {
	intn := rand.Intn
	perm := rand.Perm
	if rng != nil {
		intn = rng.Intn
		perm = rng.Perm
	}

	centroids := make([]Point, 0, k)
	for _, idx := range perm(len(points)) {
		if len(centroids) == k {
			break
		}
		centroids = append(centroids, points[idx])
	}
	for len(centroids) < k {
		centroids = append(centroids, points[intn(len(points))])
	}
	return centroids
}

// assign fills assignments[i] with the index of the centroid nearest to
// points[i]. The sequential and parallel paths compute identical results;
// parallelism only chunks the loop.
func assign(points []Point, centroids []Point, assignments []int, parallel bool) {
	if !parallel || len(points) < 256 {
		assignChunk(points, centroids, assignments, 0, len(points))
		return
	}

	var g errgroup.Group
	workers := runtime.NumCPU()
	chunk := (len(points) + workers - 1) / workers
	for start := 0; start < len(points); start += chunk {
		end := start + chunk
		if end > len(points) {
			end = len(points)
		}
		g.Go(func() error {
			assignChunk(points, centroids, assignments, start, end)
			return nil
		})
	}
	// Workers never return errors; Wait is only a join point.
	_ = g.Wait()
}

func assignChunk(points []Point, centroids []Point, assignments []int, start, end int) {
	for i := start; i < end; i++ {
		best := 0
		bestDist := math.Inf(1)
		for c, centroid := range centroids {
			if d := sqDist(points[i], centroid); d < bestDist {
				bestDist = d
				best = c
			}
		}
		assignments[i] = best
	}
}

func sqDist(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
