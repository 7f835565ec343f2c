package async

import (
	"sync/atomic"
)

// UnitFunc performs one unit of work. Returning false (or an error) ends the
// loop. The runner checks its stop flag before every invocation, never after,
// so a Stop issued between units always takes effect before the next one.
type UnitFunc func() (cont bool, err error)

// Runner executes a cooperative loop on its own goroutine: an explicit
// cancellable task in place of a self-rescheduling callback. The unit itself
// is expected to block or pace as needed (e.g. awaiting a training batch);
// the runner adds only cancellation and completion semantics.
type Runner struct {
	stopped atomic.Bool
	done    chan struct{}
	err     error
}

// Run starts the loop immediately and returns its handle
func Run(unit UnitFunc) *Runner {
	r := &Runner{done: make(chan struct{})}
	go func() {
		defer close(r.done)
		for !r.stopped.Load() {
			cont, err := unit()
			if err != nil {
				r.err = err
				return
			}
			if !cont {
				return
			}
		}
	}()
	return r
}

// Stop requests cancellation. The unit in flight finishes; no further units
// start. Safe to call from any goroutine, any number of times.
func (r *Runner) Stop() {
	r.stopped.Store(true)
}

// Wait blocks until the loop has fully exited and returns the error that
// ended it, if any.
func (r *Runner) Wait() error {
	<-r.done
	return r.err
}

// Stopped reports whether cancellation has been requested
func (r *Runner) Stopped() bool {
	return r.stopped.Load()
}
