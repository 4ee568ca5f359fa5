// Package syncer decouples high-frequency local event capture from network
// I/O: events accumulate in an in-memory session buffer and a background
// worker flushes them to the ingestion boundary in batches.
package syncer

import (
	"sync"
	"time"

	"github.com/blackwell-systems/codepulse/internal/event"
	"github.com/google/uuid"
)

// State is a session's lifecycle position.
type State int

// A session moves Tracking -> Stopped, once, and never back.
const (
	Tracking State = iota
	Stopped
)

// Session groups the events of one continuous editing run. It is created
// when tracking starts and stopped when tracking ends; there is no hidden
// process-wide current session, callers pass the session explicitly.
type Session struct {
	ID        string
	Username  string
	Workspace string
	StartTime time.Time

	mu      sync.Mutex
	state   State
	pending []event.Activity
}

// NewSession starts a tracking session for the user. The session ID is
// assigned here and is immutable for the session's lifetime.
func NewSession(username, workspace string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Username:  username,
		Workspace: workspace,
		StartTime: time.Now(),
		state:     Tracking,
	}
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Record appends a captured event to the pending buffer, stamping the
// session's identity onto it. It never blocks on network I/O and never
// fails: capture must not disrupt the editing it observes. Events recorded
// after Stop are dropped.
func (s *Session) Record(a event.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Tracking {
		return
	}
	a.SessionID = s.ID
	a.Username = s.Username
	if a.Workspace == "" {
		a.Workspace = s.Workspace
	}
	s.pending = append(s.pending, a)
}

// Pending returns the number of buffered events awaiting delivery.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// stop transitions the session to Stopped.
func (s *Session) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Stopped
}

// take atomically swaps the pending buffer for an empty one and returns
// what was accumulated.
func (s *Session) take() []event.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch := s.pending
	s.pending = nil
	return batch
}

// requeue prepends a failed batch ahead of whatever accumulated since it
// was taken, preserving original relative order for the next attempt.
func (s *Session) requeue(batch []event.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(batch, s.pending...)
}
