package training

import (
	"context"

	"github.com/tsawler/go-mlstep/async"
	"github.com/tsawler/go-mlstep/nn"
)

// DriverConfig shapes the train/render cycle
type DriverConfig struct {
	Train          TrainConfig // Epochs here is the batch size per cycle
	GridResolution int
	RangeX         [2]float64
	RangeY         [2]float64
}

// DefaultDriverConfig returns the usual interactive setup: small epoch
// batches so Stop takes effect quickly, and a grid spanning the unit-ish
// plane the teaching datasets live on.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		Train: TrainConfig{
			LearningRate: 0.5,
			Epochs:       10,
			BatchSize:    0,
		},
		GridResolution: 25,
		RangeX:         [2]float64{-0.5, 1.5},
		RangeY:         [2]float64{-0.5, 1.5},
	}
}

// Frame is one render-ready snapshot produced after each epoch batch
type Frame struct {
	Result  TrainResult
	Grid    []float64
	Weights []nn.LayerWeights
}

// RenderFunc consumes frames on the driver goroutine; it should hand the
// frame to the renderer and return, like a progress sink.
type RenderFunc func(Frame)

// Driver runs the prescribed training loop as a cancellable task: train a
// bounded batch of epochs, fetch the prediction grid and weights, render,
// repeat. The cancellation flag is checked before every cycle (via
// async.Runner), so a Stop between batches always lands before more work
// starts. Any rejected command ends the loop; the driver never retries.
type Driver struct {
	orch    *Orchestrator
	runner  *async.Runner
	metrics *MetricsRecorder
}

// StartDriver begins the loop immediately. onProgress may be nil; every
// progress record is also collected in the driver's MetricsRecorder.
func StartDriver(orch *Orchestrator, inputs, labels [][]float64, cfg DriverConfig, onProgress ProgressFunc, render RenderFunc) *Driver {
	d := &Driver{
		orch:    orch,
		metrics: NewMetricsRecorder(),
	}

	sink := func(p Progress) {
		d.metrics.Record(p)
		if onProgress != nil {
			onProgress(p)
		}
	}

	d.runner = async.Run(func() (bool, error) {
		result, err := orch.Train(context.Background(), inputs, labels, cfg.Train, sink)
		if err != nil {
			return false, err
		}
		if result.Stopped {
			return false, nil
		}

		grid, err := orch.PredictGrid(context.Background(), cfg.GridResolution, cfg.RangeX, cfg.RangeY)
		if err != nil {
			return false, err
		}
		weights, err := orch.GetWeights(context.Background())
		if err != nil {
			return false, err
		}

		if render != nil {
			render(Frame{Result: result, Grid: grid, Weights: weights})
		}
		return true, nil
	})
	return d
}

// Stop cancels the loop and signals the orchestrator so an in-flight Train
// settles after its current epoch.
func (d *Driver) Stop() {
	d.runner.Stop()
	_ = d.orch.Stop(context.Background())
}

// Wait blocks until the loop exits and returns the error that ended it, if
// any. A loop ended by Stop or by training completing returns nil.
func (d *Driver) Wait() error {
	return d.runner.Wait()
}

// Metrics exposes the progress history collected so far
func (d *Driver) Metrics() *MetricsRecorder {
	return d.metrics
}
