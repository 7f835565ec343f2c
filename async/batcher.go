package async

import (
	"fmt"
	"math/rand"
)

// Batcher slices a dataset of n samples into mini-batches of indices. Each
// Batches call produces one epoch's worth of batches; with shuffling enabled
// the order is re-drawn per epoch from a seeded generator, so two Batchers
// built with the same seed walk the data identically. That determinism is
// what keeps training runs reproducible frame to frame.
type Batcher struct {
	n         int
	batchSize int
	rng       *rand.Rand
	epoch     uint64
}

// NewBatcher creates a batcher over n samples. A batchSize <= 0 or >= n
// yields a single full batch. Seed 0 disables shuffling entirely, preserving
// dataset order (useful for the small fixed teaching datasets).
func NewBatcher(n, batchSize int, seed int64) (*Batcher, error) {
	if n <= 0 {
		return nil, fmt.Errorf("batcher requires at least one sample, got %d", n)
	}
	b := &Batcher{n: n, batchSize: batchSize}
	if batchSize <= 0 || batchSize > n {
		b.batchSize = n
	}
	if seed != 0 {
		b.rng = rand.New(rand.NewSource(seed))
	}
	return b, nil
}

// Batches returns the index batches for the next epoch
func (b *Batcher) Batches() [][]int {
	order := make([]int, b.n)
	for i := range order {
		order[i] = i
	}
	if b.rng != nil {
		b.rng.Shuffle(b.n, func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}
	b.epoch++

	batches := make([][]int, 0, (b.n+b.batchSize-1)/b.batchSize)
	for start := 0; start < b.n; start += b.batchSize {
		end := start + b.batchSize
		if end > b.n {
			end = b.n
		}
		batches = append(batches, order[start:end])
	}
	return batches
}

// Epochs returns how many epochs have been drawn so far
func (b *Batcher) Epochs() uint64 {
	return b.epoch
}
