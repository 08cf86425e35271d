// Package session owns the connection lifecycle. The Manager is the only
// writer of ConnectionState; every loop observes it through the session
// context and must wind down within one iteration of the state leaving
// Connected.
package session

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// State is the connection lifecycle state.
type State int

const (
	StateIdle State = iota
	StateListening
	StateConnecting
	StateConnected
	StateDisconnected
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Status is a state plus, for StateError, what went wrong.
type Status struct {
	State   State
	Message string
}

func (s Status) String() string {
	if s.Message != "" {
		return s.State.String() + ": " + s.Message
	}
	return s.State.String()
}

// Valid transitions. The server walks Idle → Listening → Connected →
// Listening/Idle; the client walks Idle → Connecting → Connected →
// Disconnected/Error → Idle.
var transitions = map[State][]State{
	StateIdle:         {StateListening, StateConnecting},
	StateListening:    {StateConnected, StateIdle, StateError},
	StateConnecting:   {StateConnected, StateError, StateIdle},
	StateConnected:    {StateDisconnected, StateError, StateIdle},
	StateDisconnected: {StateListening, StateConnecting, StateIdle},
	StateError:        {StateListening, StateConnecting, StateIdle},
}

// Manager is the single writer of the connection state. It owns the active
// connection: leaving Connected closes it, which fails any goroutine
// parked in a blocking read or write on it.
type Manager struct {
	log *logrus.Entry

	mu        sync.Mutex
	status    Status
	sessionID string
	conn      io.Closer
	cancel    context.CancelFunc

	updates chan Status
}

func NewManager(log *logrus.Entry) *Manager {
	return &Manager{
		log:     log,
		status:  Status{State: StateIdle},
		updates: make(chan Status, 16),
	}
}

// Status returns the current state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Active reports whether a session is currently connected. The server's
// admission guard keys off this.
func (m *Manager) Active() bool {
	return m.Status().State == StateConnected
}

// SessionID identifies the current (or most recent) session in logs.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// Updates delivers state changes for user-facing status display. Slow
// consumers miss intermediate states rather than blocking transitions.
func (m *Manager) Updates() <-chan Status {
	return m.updates
}

// Listen moves to Listening.
func (m *Manager) Listen() error {
	return m.to(Status{State: StateListening})
}

// Dial moves to Connecting.
func (m *Manager) Dial() error {
	return m.to(Status{State: StateConnecting})
}

// Connect moves to Connected, taking ownership of conn. The returned
// context is canceled the moment the session leaves Connected; loops check
// it once per iteration.
func (m *Manager) Connect(conn io.Closer) (context.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkTransition(StateConnected); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.conn = conn
	m.cancel = cancel
	m.sessionID = uuid.NewString()
	m.set(Status{State: StateConnected})
	return ctx, nil
}

// Disconnect ends the active session: cancels the session context, closes
// the owned connection, and records Disconnected (or Error when err is not
// nil). Calling it without an active session does nothing, so the first
// loop to observe a failure wins and the others' follow-ups are no-ops.
func (m *Manager) Disconnect(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status.State != StateConnected {
		return
	}
	next := Status{State: StateDisconnected}
	if err != nil {
		next = Status{State: StateError, Message: err.Error()}
	}
	m.teardown()
	m.set(next)
}

// Fail records a terminal error outside an active session (a refused dial,
// a dead listener).
func (m *Manager) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status.State == StateError {
		return
	}
	m.teardown()
	m.set(Status{State: StateError, Message: err.Error()})
}

// Stop is the explicit user stop: whatever is live is torn down and the
// state returns to Idle.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status.State == StateIdle {
		return
	}
	m.teardown()
	m.set(Status{State: StateIdle})
}

func (m *Manager) to(next Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkTransition(next.State); err != nil {
		return err
	}
	m.set(next)
	return nil
}

func (m *Manager) checkTransition(next State) error {
	for _, s := range transitions[m.status.State] {
		if s == next {
			return nil
		}
	}
	return errors.Errorf("session: cannot move from %s to %s", m.status.State, next)
}

// set records the new status and notifies watchers. Caller holds mu.
func (m *Manager) set(next Status) {
	prev := m.status
	m.status = next
	m.log.WithFields(logrus.Fields{
		"from":    prev.State.String(),
		"to":      next.State.String(),
		"session": m.sessionID,
	}).Info("session state change")
	select {
	case m.updates <- next:
	default:
	}
}

// teardown cancels the session context and closes the owned connection.
// Caller holds mu.
func (m *Manager) teardown() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
}
