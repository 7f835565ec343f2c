package async

import (
	"testing"
)

// TestBatcherCoversAllIndices verifies every sample appears exactly once per
// epoch regardless of shuffle
func TestBatcherCoversAllIndices(t *testing.T) {
	b, err := NewBatcher(103, 10, 42)
	if err != nil {
		t.Fatalf("NewBatcher failed: %v", err)
	}

	seen := make(map[int]int)
	total := 0
	for _, batch := range b.Batches() {
		for _, idx := range batch {
			seen[idx]++
			total++
		}
	}
	if total != 103 {
		t.Fatalf("Expected 103 indices, got %d", total)
	}
	for idx, count := range seen {
		if count != 1 {
			t.Errorf("Index %d appeared %d times", idx, count)
		}
	}
	if got := b.Epochs(); got != 1 {
		t.Errorf("Expected 1 epoch drawn, got %d", got)
	}
}

// TestBatcherDeterministicBySeed verifies equal seeds walk identically
func TestBatcherDeterministicBySeed(t *testing.T) {
	a, _ := NewBatcher(50, 8, 7)
	b, _ := NewBatcher(50, 8, 7)

	for epoch := 0; epoch < 3; epoch++ {
		ba := a.Batches()
		bb := b.Batches()
		if len(ba) != len(bb) {
			t.Fatalf("Epoch %d: batch counts differ", epoch)
		}
		for i := range ba {
			for j := range ba[i] {
				if ba[i][j] != bb[i][j] {
					t.Fatalf("Epoch %d batch %d: order differs", epoch, i)
				}
			}
		}
	}
}

// TestBatcherZeroSeedPreservesOrder verifies seed 0 disables shuffling
func TestBatcherZeroSeedPreservesOrder(t *testing.T) {
	b, _ := NewBatcher(10, 4, 0)

	want := 0
	for _, batch := range b.Batches() {
		for _, idx := range batch {
			if idx != want {
				t.Fatalf("Expected index %d, got %d", want, idx)
			}
			want++
		}
	}
}

// TestBatcherFullBatch verifies batchSize <= 0 yields one batch
func TestBatcherFullBatch(t *testing.T) {
	b, _ := NewBatcher(12, 0, 0)
	batches := b.Batches()
	if len(batches) != 1 || len(batches[0]) != 12 {
		t.Errorf("Expected single batch of 12, got %d batches", len(batches))
	}
}

func TestBatcherRejectsEmptyDataset(t *testing.T) {
	if _, err := NewBatcher(0, 4, 0); err == nil {
		t.Error("Expected error for empty dataset")
	}
}
