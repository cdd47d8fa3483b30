package tracestore

import (
	"sync"
	"time"

	"github.com/vango-dev/vango-react/pkg/react"
)

// Recorder collects lifecycle events. The zero value is not usable; call
// NewRecorder.
type Recorder struct {
	mu      sync.Mutex
	started time.Time
	limit   int
	events  []react.Event
	dropped int
}

// NewRecorder returns a Recorder keeping at most limit events. When the
// limit is reached the oldest events are dropped. A limit of 0 keeps
// everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{
		started: time.Now(),
		limit:   limit,
	}
}

// Observe implements react.Observer.
func (r *Recorder) Observe(e react.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.limit > 0 && len(r.events) == r.limit {
		copy(r.events, r.events[1:])
		r.events = r.events[:len(r.events)-1]
		r.dropped++
	}
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []react.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]react.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset discards the recorded events and restarts the clock.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.dropped = 0
	r.started = time.Now()
}

// Snapshot returns a Trace of the events recorded so far.
func (r *Recorder) Snapshot(stats react.Stats) *Trace {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := make([]react.Event, len(r.events))
	copy(events, r.events)
	return &Trace{
		ID:      newTraceID(r.started),
		Started: r.started,
		Ended:   time.Now(),
		Dropped: r.dropped,
		Stats:   stats,
		Events:  events,
	}
}
