package training

import (
	"log/slog"
)

// Progress is one epoch's training telemetry. Epoch is the cumulative epoch
// index for the model, not the index within the current Train call.
type Progress struct {
	Epoch    int     `json:"epoch"`
	Loss     float64 `json:"loss"`
	Accuracy float64 `json:"accuracy"`
}

// ProgressFunc receives progress records on the caller's side of the
// boundary. It must be cheap; a slow sink delays delivery but never the
// training loop itself.
type ProgressFunc func(Progress)

// ProgressChannel decouples the training loop from the caller's progress
// sink. Publish never blocks: records are buffered and delivered by a
// dedicated goroutine, and when the buffer is full the oldest record is
// dropped (stale epochs are worthless to a live visualization). Sink panics
// are recovered so a broken sink cannot abort training.
type ProgressChannel struct {
	sink     ProgressFunc
	events   chan Progress
	flushReq chan chan struct{}
	quit     chan struct{}
	done     chan struct{}
	logger   *slog.Logger
}

// NewProgressChannel starts the delivery goroutine. A nil sink is valid and
// simply discards records.
func NewProgressChannel(sink ProgressFunc, buffer int, logger *slog.Logger) *ProgressChannel {
	if buffer <= 0 {
		buffer = 16
	}
	if logger == nil {
		logger = slog.Default()
	}
	pc := &ProgressChannel{
		sink:     sink,
		events:   make(chan Progress, buffer),
		flushReq: make(chan chan struct{}),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger,
	}
	go pc.dispatch()
	return pc
}

// Publish enqueues a record without ever blocking the caller. When the
// buffer is full the oldest queued record is discarded to make room.
func (pc *ProgressChannel) Publish(p Progress) {
	select {
	case pc.events <- p:
		return
	default:
	}
	select {
	case <-pc.events:
	default:
	}
	select {
	case pc.events <- p:
	default:
	}
}

// Flush blocks until every record published before the call has been handed
// to the sink. The training context flushes before resolving a train call,
// which is what guarantees all progress for an epoch arrives before the call
// containing it resolves.
func (pc *ProgressChannel) Flush() {
	ack := make(chan struct{})
	select {
	case pc.flushReq <- ack:
		<-ack
	case <-pc.done:
	}
}

// Close stops the delivery goroutine after a final flush
func (pc *ProgressChannel) Close() {
	pc.Flush()
	select {
	case <-pc.quit:
	default:
		close(pc.quit)
	}
	<-pc.done
}

func (pc *ProgressChannel) dispatch() {
	defer close(pc.done)
	for {
		select {
		case p := <-pc.events:
			pc.deliver(p)
		case ack := <-pc.flushReq:
			pc.drain()
			close(ack)
		case <-pc.quit:
			pc.drain()
			return
		}
	}
}

// drain delivers everything currently buffered
func (pc *ProgressChannel) drain() {
	for {
		select {
		case p := <-pc.events:
			pc.deliver(p)
		default:
			return
		}
	}
}

func (pc *ProgressChannel) deliver(p Progress) {
	if pc.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			pc.logger.Warn("progress sink panicked", "epoch", p.Epoch, "panic", r)
		}
	}()
	pc.sink(p)
}
