package training

import (
	"sync"
)

// MetricsRecorder accumulates progress records for the loss/accuracy charts
// the UI draws alongside the decision boundary. Safe for concurrent use:
// progress arrives on the delivery goroutine while the UI reads history.
type MetricsRecorder struct {
	mu      sync.Mutex
	history []Progress
}

// NewMetricsRecorder creates an empty recorder
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// Record appends one progress record
func (mr *MetricsRecorder) Record(p Progress) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.history = append(mr.history, p)
}

// History returns a copy of everything recorded so far, in arrival order
func (mr *MetricsRecorder) History() []Progress {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	return append([]Progress(nil), mr.history...)
}

// Latest returns the most recent record, if any
func (mr *MetricsRecorder) Latest() (Progress, bool) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if len(mr.history) == 0 {
		return Progress{}, false
	}
	return mr.history[len(mr.history)-1], true
}

// Best returns the record with the lowest loss, if any
func (mr *MetricsRecorder) Best() (Progress, bool) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if len(mr.history) == 0 {
		return Progress{}, false
	}
	best := mr.history[0]
	for _, p := range mr.history[1:] {
		if p.Loss < best.Loss {
			best = p
		}
	}
	return best, true
}

// Len reports how many records have been collected
func (mr *MetricsRecorder) Len() int {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	return len(mr.history)
}

// Reset clears the history, e.g. when a new model replaces the old one
func (mr *MetricsRecorder) Reset() {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.history = nil
}
