package async

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// TestRunnerStopsBetweenUnits verifies the flag is honored before the next
// unit starts
func TestRunnerStopsBetweenUnits(t *testing.T) {
	var units atomic.Int64
	started := make(chan struct{})

	r := Run(func() (bool, error) {
		if units.Add(1) == 1 {
			close(started)
		}
		time.Sleep(time.Millisecond)
		return true, nil
	})

	<-started
	r.Stop()
	if err := r.Wait(); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}

	after := units.Load()
	time.Sleep(5 * time.Millisecond)
	if units.Load() != after {
		t.Error("Units kept running after Wait returned")
	}
}

// TestRunnerExitsOnFalse verifies a unit can end the loop voluntarily
func TestRunnerExitsOnFalse(t *testing.T) {
	var units int
	r := Run(func() (bool, error) {
		units++
		return units < 5, nil
	})

	if err := r.Wait(); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if units != 5 {
		t.Errorf("Expected 5 units, got %d", units)
	}
}

// TestRunnerPropagatesError verifies unit errors end the loop and surface
// from Wait
func TestRunnerPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	var units int
	r := Run(func() (bool, error) {
		units++
		if units == 3 {
			return true, boom
		}
		return true, nil
	})

	if err := r.Wait(); !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	if units != 3 {
		t.Errorf("Expected 3 units, got %d", units)
	}
}

// TestRunnerStopIdempotent verifies repeated Stop calls are safe
func TestRunnerStopIdempotent(t *testing.T) {
	r := Run(func() (bool, error) { return true, nil })
	r.Stop()
	r.Stop()
	if err := r.Wait(); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if !r.Stopped() {
		t.Error("Expected Stopped to report true")
	}
}
