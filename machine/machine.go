// Package machine identifies where the calling process runs.
//
// A Machine is acquired with New and released with Close. PInfo reports the
// node, process and thread identifiers of the caller and nothing more.
package machine

import (
	"os"
	"sync"

	"github.com/wippyai/gpt-shim/errors"
	"github.com/wippyai/gpt-shim/platform"
)

// MaxThreads is the largest thread identifier plus one.
const MaxThreads = 128

// Machine is a handle on the executing machine. Safe for concurrent use.
type Machine struct {
	caps   platform.Capabilities
	pid    int
	mu     sync.RWMutex
	closed bool
}

// New acquires a machine handle for the given capabilities.
func New(caps platform.Capabilities) (*Machine, error) {
	if err := caps.Validate(); err != nil {
		return nil, err
	}
	return &Machine{caps: caps, pid: os.Getpid()}, nil
}

// Capabilities returns the descriptor the machine was created with.
func (m *Machine) Capabilities() platform.Capabilities {
	return m.caps
}

// PInfo returns node, process and thread identifiers. Without message
// passing the node is 0; without OpenMP threads the thread is 0.
func (m *Machine) PInfo() (node, process, thread int, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, 0, 0, errors.NotInitialized(errors.PhaseRuntime, "machine")
	}
	return 0, m.pid, 0, nil
}

// Close releases the handle. Calling Close more than once is a no-op.
func (m *Machine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
