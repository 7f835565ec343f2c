package training

import (
	"errors"

	"github.com/google/uuid"
)

// Status tracks a session through its lifecycle
type Status int

const (
	Idle Status = iota
	Creating
	Modeled
	Training
	Stopped
	Disposed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Creating:
		return "Creating"
	case Modeled:
		return "Modeled"
	case Training:
		return "Training"
	case Stopped:
		return "Stopped"
	case Disposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}

// Sentinel errors distinguishing "recreate the model" failures from
// transient ones. Callers test with errors.Is.
var (
	// ErrDisposed means the session's model handle is permanently invalid;
	// the caller must create a new model. Never retryable.
	ErrDisposed = errors.New("session disposed")

	// ErrNoModel means no model has been created for the session yet
	ErrNoModel = errors.New("no model created")

	// ErrUnavailable means the training context is not initialized or has
	// shut down; the operation may succeed after Init.
	ErrUnavailable = errors.New("training context unavailable")
)

// Session is the orchestrator-side record of one model lifetime. The model
// itself lives inside the training context; the session carries only the
// opaque id that commands are validated against.
type Session struct {
	ID           uuid.UUID
	Status       Status
	LastProgress Progress
}

func newSession() *Session {
	return &Session{ID: uuid.New(), Status: Creating}
}
