package session

import (
	"sync"
	"time"

	"booking-agent/internal/booking"
)

// Status of a call session. Terminal statuses accept no further transitions;
// only carrierStatus keeps being recorded for audit.
type Status string

const (
	StatusDialing   Status = "dialing"
	StatusConnected Status = "connected"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusNoAnswer  Status = "no-answer"
	StatusBusy      Status = "busy"
	StatusCanceled  Status = "canceled"
)

// Terminal reports whether the status accepts no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusNoAnswer, StatusBusy, StatusCanceled:
		return true
	}
	return false
}

// Outcome is the terminal booking determination. Set at most once per
// session; once non-nil it is never overwritten.
type Outcome struct {
	Confirmed bool   `json:"confirmed"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	Service   string `json:"service,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Spoken fallback lines used by the state machine.
const (
	lineReprompt    = "Hello? Are you still there?"
	lineNoReply     = "Sorry, I could not hear you. I will try again another time. Goodbye."
	lineTechTrouble = "I'm sorry, I'm having technical difficulties. Someone will call back later. Goodbye."
)

// CallSession tracks one outbound call from dial-out through termination.
//
// It is mutated only through Apply; a per-session mutex makes every
// transition's read-modify-write of status and outcome atomic. The delegate
// call and the outbound dial happen outside this lock, so a transition that
// lands after a terminal decision finds the guard and becomes a no-op.
type CallSession struct {
	id           string
	booking      booking.Request
	greeting     string
	instructions string
	createdAt    time.Time

	history    *Transcript // delegate view; the greeting is not part of it
	transcript *Transcript // display view; includes the greeting once spoken

	mu            sync.Mutex
	status        Status
	carrierStatus string
	outcome       *Outcome
	reprompted    bool
}

// New creates a session in the dialing state. id is the carrier-assigned
// call identifier and is immutable.
func New(id string, req booking.Request, greeting, instructions string, createdAt time.Time) *CallSession {
	return &CallSession{
		id:           id,
		booking:      req,
		greeting:     greeting,
		instructions: instructions,
		createdAt:    createdAt.UTC(),
		history:      NewTranscript(),
		transcript:   NewTranscript(),
		status:       StatusDialing,
	}
}

func (s *CallSession) ID() string            { return s.id }
func (s *CallSession) Booking() booking.Request { return s.booking }
func (s *CallSession) Greeting() string      { return s.greeting }
func (s *CallSession) Instructions() string  { return s.instructions }
func (s *CallSession) CreatedAt() time.Time  { return s.createdAt }

// History returns the conversation as fed to the delegate.
func (s *CallSession) History() []Entry { return s.history.Entries() }

// Snapshot is a consistent read of the session's mutable state.
type Snapshot struct {
	ID            string
	Status        Status
	CarrierStatus string
	Outcome       *Outcome
	Transcript    []Entry
	CreatedAt     time.Time
}

func (s *CallSession) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out *Outcome
	if s.outcome != nil {
		cp := *s.outcome
		out = &cp
	}
	return Snapshot{
		ID:            s.id,
		Status:        s.status,
		CarrierStatus: s.carrierStatus,
		Outcome:       out,
		Transcript:    s.transcript.Entries(),
		CreatedAt:     s.createdAt,
	}
}

// Status returns the current state-machine status.
func (s *CallSession) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}
