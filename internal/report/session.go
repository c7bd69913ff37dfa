package report

import (
	"fmt"

	"github.com/heart-risk-server/internal/domain"
)

// SessionState tracks where one user session stands in the assessment cycle.
type SessionState string

const (
	StateIdle      SessionState = "IDLE"
	StateSubmitted SessionState = "SUBMITTED"
	StateScored    SessionState = "SCORED"
	StateReported  SessionState = "REPORTED"
)

// Session is the explicit per-session context for the assessment cycle
// Idle -> Submitted -> Scored -> Reported. It owns the bounded report history
// for its user; nothing reads ambient global state. A new submission restarts
// the cycle from Submitted. There is no Idle -> Reported shortcut: a report
// cannot be produced before a score exists.
type Session struct {
	state   SessionState
	history *History
	last    *domain.ReportRecord
}

// NewSession creates an idle session with an empty history of the given
// capacity.
func NewSession(historyCapacity int) *Session {
	return &Session{
		state:   StateIdle,
		history: NewHistory(historyCapacity),
	}
}

// State returns the current session state.
func (s *Session) State() SessionState {
	return s.state
}

// Submit marks a completed form submission, restarting the cycle. Valid from
// any state except an in-flight submission.
func (s *Session) Submit() error {
	if s.state == StateSubmitted {
		return fmt.Errorf("session transition: submission already in progress")
	}
	s.state = StateSubmitted
	return nil
}

// Scored records a completed assessment for the in-flight submission and
// appends it to the session history.
func (s *Session) Scored(record *domain.ReportRecord) error {
	if s.state != StateSubmitted {
		return fmt.Errorf("session transition: cannot score in state %s", s.state)
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("session transition: %w", err)
	}
	s.history.Add(record)
	s.last = record
	s.state = StateScored
	return nil
}

// SubmissionFailed rolls back a rejected submission, leaving the history
// untouched. A session that had already scored returns to Scored so its last
// record stays reportable; otherwise it returns to Idle.
func (s *Session) SubmissionFailed() {
	if s.state != StateSubmitted {
		return
	}
	if s.last != nil {
		s.state = StateScored
	} else {
		s.state = StateIdle
	}
}

// Report hands out the last scored record for rendering. Valid from Scored
// and, for repeat renders of the same submission, from Reported; anything
// earlier in the cycle fails with ErrNoScore.
func (s *Session) Report() (*domain.ReportRecord, error) {
	switch s.state {
	case StateScored, StateReported:
		s.state = StateReported
		return s.last, nil
	default:
		return nil, fmt.Errorf("session in state %s: %w", s.state, domain.ErrNoScore)
	}
}

// Last returns the most recently scored record, if any.
func (s *Session) Last() *domain.ReportRecord {
	return s.last
}

// Recent returns the session history most-recent-first.
func (s *Session) Recent() []*domain.ReportRecord {
	return s.history.Recent()
}

// Find returns a record from the session history by ID.
func (s *Session) Find(id string) (*domain.ReportRecord, bool) {
	return s.history.Get(id)
}

// HistoryLen returns the number of records in the session history.
func (s *Session) HistoryLen() int {
	return s.history.Len()
}
