package session

import (
	"errors"
	"fmt"
	"sync"
)

// State is the lifecycle state of a picker session
type State int

const (
	Active State = iota
	Confirmed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no transition can leave s
func (s State) Terminal() bool {
	return s == Confirmed || s == Cancelled
}

// ErrNotActive is returned for operations that need an active session
var ErrNotActive = errors.New("session is not active")

// Machine governs the Active -> Confirmed/Cancelled lifecycle and owns the
// release functions for everything the session holds (subscriptions,
// bindings, pending work).
type Machine struct {
	mu       sync.Mutex
	state    State
	releases []func()
	released bool
}

// New creates a machine in the Active state
func New() *Machine {
	return &Machine{state: Active}
}

// State returns the current state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Active reports whether the session still accepts mutations
func (m *Machine) Active() bool {
	return m.State() == Active
}

// Transition moves an active session to a terminal state.
// It fails with ErrNotActive when the session already ended.
func (m *Machine) Transition(to State) error {
	if !to.Terminal() {
		return fmt.Errorf("invalid transition to %s", to)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Active {
		return fmt.Errorf("%w: already %s", ErrNotActive, m.state)
	}
	m.state = to
	return nil
}

// Add registers a release function. Once the machine has been released the
// function runs immediately.
func (m *Machine) Add(release func()) {
	if release == nil {
		return
	}
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		release()
		return
	}
	m.releases = append(m.releases, release)
	m.mu.Unlock()
}

// Release runs every registered release function once, newest first.
// Calling Release again does nothing.
func (m *Machine) Release() {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return
	}
	m.released = true
	releases := m.releases
	m.releases = nil
	m.mu.Unlock()

	for i := len(releases) - 1; i >= 0; i-- {
		releases[i]()
	}
}

// Disposable groups release functions that can be dropped together without
// ending the session, such as the current query-source subscription.
type Disposable struct {
	mu       sync.Mutex
	releases []func()
}

// Add registers a release function
func (d *Disposable) Add(release func()) {
	if release == nil {
		return
	}
	d.mu.Lock()
	d.releases = append(d.releases, release)
	d.mu.Unlock()
}

// Dispose runs and forgets every registered release function
func (d *Disposable) Dispose() {
	d.mu.Lock()
	releases := d.releases
	d.releases = nil
	d.mu.Unlock()

	for i := len(releases) - 1; i >= 0; i-- {
		releases[i]()
	}
}
