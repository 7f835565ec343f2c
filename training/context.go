package training

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/tsawler/go-mlstep/async"
	"github.com/tsawler/go-mlstep/layers"
	"github.com/tsawler/go-mlstep/nn"
)

// execContext is the isolated execution context: a single goroutine that
// owns the live model and processes typed commands strictly in arrival
// order. No model reference ever escapes it; every payload crossing the
// boundary is a deep copy. This is what keeps heavy training off the
// caller's rendering path.
type execContext struct {
	commands chan contextCommand
	quit     chan struct{}
	done     chan struct{}
	logger   *slog.Logger

	// stopFlag is the one piece of state shared across the boundary: the
	// training loop polls it between epochs, so cancellation is cooperative
	// and never interrupts an epoch mid-flight.
	stopFlag atomic.Bool

	// Owned exclusively by the run goroutine.
	session     uuid.UUID
	disposed    bool
	model       *nn.Network
	epochsTotal int
}

// contextCommand is one named operation with a typed request and reply.
// Commands carry the session they target; the context rejects commands for
// any session other than the live one. Every enqueued command is answered
// exactly once: run replies on completion, reject replies when the loop
// shuts down before the command is dequeued.
type contextCommand interface {
	run(c *execContext)
	reject(err error)
}

func newExecContext(logger *slog.Logger) *execContext {
	c := &execContext{
		commands: make(chan contextCommand, 8),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger,
	}
	go c.run()
	return c
}

func (c *execContext) run() {
	defer close(c.done)
	for {
		select {
		case cmd := <-c.commands:
			cmd.run(c)
		case <-c.quit:
			c.model = nil
			// Anything still buffered gets a reply before the loop exits;
			// otherwise callers block forever on commands that never run.
			for {
				select {
				case cmd := <-c.commands:
					cmd.reject(ErrUnavailable)
				default:
					return
				}
			}
		}
	}
}

// shutdown stops the command loop and frees the model. Used at application
// teardown, not per-session disposal.
func (c *execContext) shutdown() {
	select {
	case <-c.quit:
	default:
		close(c.quit)
	}
	<-c.done
}

// checkSession validates a command's target against the live session
func (c *execContext) checkSession(id uuid.UUID) error {
	if c.session == uuid.Nil || id != c.session {
		return fmt.Errorf("session %s: %w", id, ErrDisposed)
	}
	if c.disposed {
		return fmt.Errorf("session %s: %w", id, ErrDisposed)
	}
	if c.model == nil {
		return fmt.Errorf("session %s: %w", id, ErrNoModel)
	}
	return nil
}

// ModelConfig selects how a model is instantiated for a session
type ModelConfig struct {
	Seed int64  // weight initialization seed; 0 is a valid fixed seed
	Loss string // "mse" (default) or "bce"
}

type createModelCmd struct {
	session uuid.UUID
	spec    *layers.ModelSpec
	config  ModelConfig
	reply   chan error
}

func (cmd *createModelCmd) run(c *execContext) {
	model, err := nn.New(cmd.spec, cmd.config.Seed)
	if err != nil {
		cmd.reply <- err
		return
	}
	switch cmd.config.Loss {
	case "", "mse":
		model.SetLoss(nn.MSELoss{})
	case "bce":
		model.SetLoss(nn.BCELoss{})
	default:
		cmd.reply <- fmt.Errorf("unknown loss %q", cmd.config.Loss)
		return
	}

	// Replacing the model slot is the context-side half of the "never two
	// live models" rule; the orchestrator awaits old-session teardown first.
	c.session = cmd.session
	c.disposed = false
	c.model = model
	c.epochsTotal = 0
	c.stopFlag.Store(false)
	c.logger.Info("model created", "session", cmd.session, "model", cmd.spec.Summary())
	cmd.reply <- nil
}

func (cmd *createModelCmd) reject(err error) {
	cmd.reply <- err
}

// TrainConfig controls one Train call (a bounded batch of epochs)
type TrainConfig struct {
	LearningRate float64
	Epochs       int
	BatchSize    int         // <= 0 means full-batch
	ShuffleSeed  int64       // 0 preserves dataset order
	Scheduler    LRScheduler // optional; nil means constant LearningRate
}

// TrainResult resolves a Train call
type TrainResult struct {
	EpochsRun int
	Stopped   bool // halted by Stop/Dispose before all epochs ran
	Last      Progress
}

type trainCmd struct {
	session  uuid.UUID
	inputs   [][]float64
	labels   [][]float64
	config   TrainConfig
	progress *ProgressChannel
	reply    chan trainReply
}

type trainReply struct {
	result TrainResult
	err    error
}

func (cmd *trainCmd) run(c *execContext) {
	if err := c.checkSession(cmd.session); err != nil {
		cmd.reply <- trainReply{err: err}
		return
	}

	batcher, err := async.NewBatcher(len(cmd.inputs), cmd.config.BatchSize, cmd.config.ShuffleSeed)
	if err != nil {
		cmd.reply <- trainReply{err: err}
		return
	}

	var result TrainResult
	for epoch := 0; epoch < cmd.config.Epochs; epoch++ {
		// Cooperative stop: checked before each epoch, never mid-epoch.
		if c.stopFlag.Load() {
			result.Stopped = true
			break
		}

		lr := cmd.config.LearningRate
		if cmd.config.Scheduler != nil {
			lr = cmd.config.Scheduler.GetLR(c.epochsTotal, 0, cmd.config.LearningRate)
		}

		epochResult, err := c.model.TrainEpoch(cmd.inputs, cmd.labels, lr, batcher)
		if err != nil {
			cmd.progress.Flush()
			cmd.reply <- trainReply{err: err}
			return
		}

		c.epochsTotal++
		result.EpochsRun++
		result.Last = Progress{
			Epoch:    c.epochsTotal,
			Loss:     epochResult.Loss,
			Accuracy: epochResult.Accuracy,
		}
		cmd.progress.Publish(result.Last)
	}

	// Every progress record for the epochs this call ran must reach the
	// sink before the call resolves.
	cmd.progress.Flush()
	cmd.reply <- trainReply{result: result}
}

func (cmd *trainCmd) reject(err error) {
	cmd.reply <- trainReply{err: err}
}

type predictGridCmd struct {
	session    uuid.UUID
	resolution int
	rangeX     [2]float64
	rangeY     [2]float64
	reply      chan gridReply
}

type gridReply struct {
	grid []float64
	err  error
}

func (cmd *predictGridCmd) run(c *execContext) {
	if err := c.checkSession(cmd.session); err != nil {
		cmd.reply <- gridReply{err: err}
		return
	}
	grid, err := c.model.PredictGrid(cmd.resolution, cmd.rangeX, cmd.rangeY)
	cmd.reply <- gridReply{grid: grid, err: err}
}

func (cmd *predictGridCmd) reject(err error) {
	cmd.reply <- gridReply{err: err}
}

type getWeightsCmd struct {
	session uuid.UUID
	reply   chan weightsReply
}

type weightsReply struct {
	weights []nn.LayerWeights
	err     error
}

func (cmd *getWeightsCmd) run(c *execContext) {
	if err := c.checkSession(cmd.session); err != nil {
		cmd.reply <- weightsReply{err: err}
		return
	}
	cmd.reply <- weightsReply{weights: c.model.Snapshot()}
}

func (cmd *getWeightsCmd) reject(err error) {
	cmd.reply <- weightsReply{err: err}
}

type disposeCmd struct {
	session uuid.UUID
	reply   chan error
}

func (cmd *disposeCmd) run(c *execContext) {
	if c.session == uuid.Nil || cmd.session != c.session {
		cmd.reply <- fmt.Errorf("session %s: %w", cmd.session, ErrDisposed)
		return
	}
	if c.disposed {
		// Disposal is unconditional and idempotent.
		cmd.reply <- nil
		return
	}
	c.disposed = true
	c.model = nil
	c.logger.Info("model disposed", "session", cmd.session, "epochs_total", c.epochsTotal)
	cmd.reply <- nil
}

func (cmd *disposeCmd) reject(err error) {
	cmd.reply <- err
}
