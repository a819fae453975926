package gpt

import (
	"context"
	"sync"
)

// Call is one recorded facility invocation.
type Call struct {
	Routine string
	Name    string
	ProcID  int32
	Option  OptionName
	Flag    Boolean
	Status  int32
}

// Recorder is a Facility that records every call and returns a configurable
// status per routine. Safe for concurrent use.
type Recorder struct {
	status map[string]int32
	calls  []Call
	// values written through the Stamp addresses
	stamp [3]float64
	mu    sync.Mutex
}

// NewRecorder creates a recorder returning status 0 for every routine.
func NewRecorder() *Recorder {
	return &Recorder{status: make(map[string]int32)}
}

// SetStatus makes routine return status. Routine names are the facility
// method names in lower case: initialize, pr, reset, setoption, stamp,
// start, stop.
func (r *Recorder) SetStatus(routine string, status int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status[routine] = status
}

// SetStamp sets the values Stamp writes.
func (r *Recorder) SetStamp(wall, usr, sys float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stamp = [3]float64{wall, usr, sys}
}

// Calls returns a copy of the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Last returns the most recent call.
func (r *Recorder) Last() (Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Call{}, false
	}
	return r.calls[len(r.calls)-1], true
}

// Clear drops recorded calls. Configured statuses are kept.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) record(c Call) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Status = r.status[c.Routine]
	r.calls = append(r.calls, c)
	return c.Status
}

func (r *Recorder) Initialize(context.Context) int32 {
	return r.record(Call{Routine: "initialize"})
}

func (r *Recorder) Pr(_ context.Context, procID int32) int32 {
	return r.record(Call{Routine: "pr", ProcID: procID})
}

func (r *Recorder) Reset(context.Context) {
	r.record(Call{Routine: "reset"})
}

func (r *Recorder) SetOption(_ context.Context, option OptionName, val Boolean) int32 {
	return r.record(Call{Routine: "setoption", Option: option, Flag: val})
}

func (r *Recorder) Stamp(_ context.Context, wall, usr, sys *float64) int32 {
	r.mu.Lock()
	*wall, *usr, *sys = r.stamp[0], r.stamp[1], r.stamp[2]
	r.mu.Unlock()
	return r.record(Call{Routine: "stamp"})
}

func (r *Recorder) Start(_ context.Context, name string) int32 {
	return r.record(Call{Routine: "start", Name: name})
}

func (r *Recorder) Stop(_ context.Context, name string) int32 {
	return r.record(Call{Routine: "stop", Name: name})
}

var _ Facility = (*Recorder)(nil)
