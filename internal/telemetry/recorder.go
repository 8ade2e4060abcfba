package telemetry

import (
	"errors"
	"sync"
	"time"
)

// ErrCloseNotRequested is returned when a close completes without a request.
var ErrCloseNotRequested = errors.New("close not requested")

// StartupEvent captures startup timing.
type StartupEvent struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
}

// CloseEvent captures the window close request and when shutdown followed.
type CloseEvent struct {
	RequestedAt time.Time
	ClosedAt    time.Time
	Latency     time.Duration
}

// Recorder tracks startup and close latency in memory.
type Recorder struct {
	mu          sync.Mutex
	requestedAt time.Time
	requested   bool
	reported    bool
}

// NewRecorder creates a telemetry recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// MarkStartupComplete computes startup duration from a provided start time.
func (r *Recorder) MarkStartupComplete(startedAt time.Time) StartupEvent {
	completedAt := time.Now()
	if completedAt.Before(startedAt) {
		completedAt = startedAt
	}
	return StartupEvent{
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Duration:    completedAt.Sub(startedAt),
	}
}

// MarkCloseRequested stores the first close request time.
// It reports whether this call was the first request.
func (r *Recorder) MarkCloseRequested(requestedAt time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.requested {
		return false
	}
	r.requested = true
	r.requestedAt = requestedAt
	return true
}

// MarkClosed records shutdown after a close request and returns an event.
// The boolean return reports whether this call emitted a new event.
func (r *Recorder) MarkClosed(closedAt time.Time) (CloseEvent, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.requested {
		return CloseEvent{}, false, ErrCloseNotRequested
	}
	if r.reported {
		return CloseEvent{}, false, nil
	}
	if closedAt.Before(r.requestedAt) {
		closedAt = r.requestedAt
	}
	r.reported = true

	return CloseEvent{
		RequestedAt: r.requestedAt,
		ClosedAt:    closedAt,
		Latency:     closedAt.Sub(r.requestedAt),
	}, true, nil
}
