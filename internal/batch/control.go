package batch

import (
	"sync/atomic"
)

// State is the position of a run in the pipeline.
type State int32

const (
	StateIdle State = iota
	StatePacking
	StateSending
	StateSplitting
	StateNormalizing
	StateDone
	StateCancelled
	StateFailed
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StatePacking:     "packing",
	StateSending:     "sending",
	StateSplitting:   "splitting",
	StateNormalizing: "normalizing",
	StateDone:        "done",
	StateCancelled:   "cancelled",
	StateFailed:      "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateCancelled || s == StateFailed
}

// Progress is reported once per completed batch.
type Progress struct {
	Done  int   // lines processed so far
	Total int   // lines in the run
	Batch Batch // the batch that just completed
}

// Control carries the caller side of a run: the progress callback, the
// cancellation flag and the observable state. The zero value is usable.
type Control struct {
	// OnProgress is invoked synchronously after each batch and must return quickly.
	OnProgress func(Progress)

	cancelled atomic.Bool
	state     atomic.Int32
}

// Cancel asks the run to stop at the next batch boundary.
func (c *Control) Cancel() {
	c.cancelled.Store(true)
}

func (c *Control) Cancelled() bool {
	return c.cancelled.Load()
}

func (c *Control) State() State {
	return State(c.state.Load())
}

func (c *Control) set(s State) {
	c.state.Store(int32(s))
}

func (c *Control) report(p Progress) {
	if c.OnProgress != nil {
		c.OnProgress(p)
	}
}
