package training

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tsawler/go-mlstep/layers"
	"github.com/tsawler/go-mlstep/nn"
)

// Orchestrator is the caller-side proxy for the isolated training context.
// Every operation is an asynchronous remote call: the method suspends the
// calling goroutine until the context replies (or ctx is cancelled), leaving
// the caller's other goroutines free. One orchestrator drives at most one
// live model; creating a new model always tears down the previous one first.
//
// The orchestrator must not be shared by concurrent Train calls against the
// same session; the driving loop awaits each batch before issuing the next.
type Orchestrator struct {
	logger *slog.Logger

	mu      sync.Mutex
	exec    *execContext
	session *Session
}

// NewOrchestrator creates an orchestrator. Init must run before any other
// operation. A nil logger falls back to slog.Default().
func NewOrchestrator(logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{logger: logger}
}

// Init prepares the execution context. Idempotent: repeated calls are no-ops.
func (o *Orchestrator) Init(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.exec != nil {
		return nil
	}
	o.exec = newExecContext(o.logger)
	o.logger.Debug("training context initialized")
	return nil
}

// Close shuts the execution context down entirely. Used at application
// teardown; afterwards every operation fails with ErrUnavailable.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	exec := o.exec
	o.exec = nil
	if o.session != nil {
		o.session.Status = Disposed
	}
	o.mu.Unlock()
	if exec != nil {
		// Settle an in-flight train after its current epoch; teardown must
		// not wait for the remaining requested epochs.
		exec.stopFlag.Store(true)
		exec.shutdown()
	}
}

// Session returns a copy of the current session record for display
func (o *Orchestrator) Session() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session == nil {
		return Session{Status: Idle}
	}
	return *o.session
}

// CreateModel instantiates a fresh model inside the context. Any previous
// model for this orchestrator is stopped and disposed first, and that
// teardown is awaited before the new model is created, so two live models
// never coexist and the old session cannot race the new one.
func (o *Orchestrator) CreateModel(ctx context.Context, spec *layers.ModelSpec, config ModelConfig) error {
	o.mu.Lock()
	exec := o.exec
	prev := o.session
	o.mu.Unlock()
	if exec == nil {
		return ErrUnavailable
	}

	if prev != nil && prev.Status != Disposed {
		if err := o.Dispose(ctx); err != nil {
			return fmt.Errorf("tearing down previous model: %w", err)
		}
	}

	session := newSession()
	o.mu.Lock()
	o.session = session
	o.mu.Unlock()

	cmd := &createModelCmd{
		session: session.ID,
		spec:    spec.Clone(),
		config:  config,
		reply:   make(chan error, 1),
	}
	if err := o.send(ctx, exec, cmd); err != nil {
		return err
	}
	select {
	case err := <-cmd.reply:
		o.mu.Lock()
		if err == nil {
			session.Status = Modeled
		} else {
			session.Status = Disposed
		}
		o.mu.Unlock()
		return err
	case <-exec.done:
		o.setStatus(session, Disposed)
		return ErrUnavailable
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Train runs a bounded batch of epochs inside the context. onProgress is
// invoked once per completed epoch, asynchronously but always before Train
// returns. The call resolves when all requested epochs complete or a Stop
// takes effect, whichever comes first; a stop outcome is a normal result,
// not an error.
func (o *Orchestrator) Train(ctx context.Context, inputs, labels [][]float64, config TrainConfig, onProgress ProgressFunc) (TrainResult, error) {
	exec, session, err := o.liveSession()
	if err != nil {
		return TrainResult{}, err
	}

	o.setStatus(session, Training)

	// A Stop only targets the train call in flight when it was issued; a new
	// Train starts with the flag lowered. Disposal is unaffected: the context
	// rejects on its disposed state, not on this flag.
	exec.stopFlag.Store(false)

	progress := NewProgressChannel(onProgress, 2*config.Epochs, o.logger)
	defer progress.Close()

	cmd := &trainCmd{
		session:  session.ID,
		inputs:   copyRows(inputs),
		labels:   copyRows(labels),
		config:   config,
		progress: progress,
		reply:    make(chan trainReply, 1),
	}
	if err := o.send(ctx, exec, cmd); err != nil {
		return TrainResult{}, err
	}

	select {
	case reply := <-cmd.reply:
		o.mu.Lock()
		if reply.err == nil && reply.result.EpochsRun > 0 {
			session.LastProgress = reply.result.Last
		}
		if session.Status == Training {
			if reply.result.Stopped || reply.err != nil {
				session.Status = Stopped
			} else {
				session.Status = Modeled
			}
		}
		o.mu.Unlock()
		return reply.result, reply.err
	case <-exec.done:
		return TrainResult{}, ErrUnavailable
	case <-ctx.Done():
		// The caller is gone but the command may still be queued or running.
		// Raise the flag so the abandoned train stops after its current epoch
		// instead of delaying every command queued behind it.
		exec.stopFlag.Store(true)
		return TrainResult{}, ctx.Err()
	}
}

// PredictGrid evaluates the model over a resolution x resolution grid in
// row-major order (row 0 at rangeY[0]). Reflects the model as of the most
// recent completed epoch, since the context serializes commands.
func (o *Orchestrator) PredictGrid(ctx context.Context, resolution int, rangeX, rangeY [2]float64) ([]float64, error) {
	exec, session, err := o.liveSession()
	if err != nil {
		return nil, err
	}
	cmd := &predictGridCmd{
		session:    session.ID,
		resolution: resolution,
		rangeX:     rangeX,
		rangeY:     rangeY,
		reply:      make(chan gridReply, 1),
	}
	if err := o.send(ctx, exec, cmd); err != nil {
		return nil, err
	}
	select {
	case reply := <-cmd.reply:
		return reply.grid, reply.err
	case <-exec.done:
		return nil, ErrUnavailable
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetWeights returns a deep-copied snapshot of the model parameters
func (o *Orchestrator) GetWeights(ctx context.Context) ([]nn.LayerWeights, error) {
	exec, session, err := o.liveSession()
	if err != nil {
		return nil, err
	}
	cmd := &getWeightsCmd{
		session: session.ID,
		reply:   make(chan weightsReply, 1),
	}
	if err := o.send(ctx, exec, cmd); err != nil {
		return nil, err
	}
	select {
	case reply := <-cmd.reply:
		return reply.weights, reply.err
	case <-exec.done:
		return nil, ErrUnavailable
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stop signals an in-progress Train call to halt after its current epoch.
// Best-effort and cooperative: the training loop notices the flag between
// epochs, so the outstanding Train resolves within one epoch's duration.
func (o *Orchestrator) Stop(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.exec == nil {
		return ErrUnavailable
	}
	o.exec.stopFlag.Store(true)
	if o.session != nil && o.session.Status == Training {
		o.session.Status = Stopped
	}
	return nil
}

// Dispose releases the model inside the context. The stop flag is raised
// first so an outstanding Train settles after its current epoch; the dispose
// command then queues behind it and frees the model unconditionally. Any
// later call against this session rejects with ErrDisposed.
func (o *Orchestrator) Dispose(ctx context.Context) error {
	o.mu.Lock()
	exec := o.exec
	session := o.session
	o.mu.Unlock()
	if exec == nil {
		return ErrUnavailable
	}
	if session == nil {
		return ErrNoModel
	}

	exec.stopFlag.Store(true)
	cmd := &disposeCmd{
		session: session.ID,
		reply:   make(chan error, 1),
	}
	if err := o.send(ctx, exec, cmd); err != nil {
		return err
	}
	select {
	case err := <-cmd.reply:
		if err == nil {
			o.setStatus(session, Disposed)
		}
		return err
	case <-exec.done:
		return ErrUnavailable
	case <-ctx.Done():
		return ctx.Err()
	}
}

// liveSession fetches the context and session, rejecting early when the
// session is already known to be disposed on this side of the boundary.
func (o *Orchestrator) liveSession() (*execContext, *Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.exec == nil {
		return nil, nil, ErrUnavailable
	}
	if o.session == nil {
		return nil, nil, ErrNoModel
	}
	if o.session.Status == Disposed {
		return nil, nil, fmt.Errorf("session %s: %w", o.session.ID, ErrDisposed)
	}
	return o.exec, o.session, nil
}

func (o *Orchestrator) setStatus(session *Session, status Status) {
	o.mu.Lock()
	session.Status = status
	o.mu.Unlock()
}

// send enqueues a command, honoring caller cancellation and context shutdown
func (o *Orchestrator) send(ctx context.Context, exec *execContext, cmd contextCommand) error {
	select {
	case exec.commands <- cmd:
		return nil
	case <-exec.done:
		return ErrUnavailable
	case <-ctx.Done():
		return ctx.Err()
	}
}

// copyRows structurally copies a dataset so no slice is shared across the
// context boundary.
func copyRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
