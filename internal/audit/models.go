package audit

import "time"

// Event is an immutable, append-only record of one call lifecycle moment.
//
// Invariants:
// - Events are never updated or deleted.
// - call_sid is required; it ties the event to its call session.
// - Recording is best-effort; call flow never blocks on audit failures.
type Event struct {
	ID      string    `json:"id"`
	CallSid string    `json:"call_sid"`
	Type    EventType `json:"type"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty"`

	// Metadata is optional JSON for full details.
	Metadata string `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type EventType string

const (
	EventTypeDialed   EventType = "call_dialed"
	EventTypeAnswered EventType = "call_answered"
	EventTypeTurn     EventType = "conversation_turn"
	EventTypeCarrier  EventType = "carrier_status"
	EventTypeTerminal EventType = "call_terminal"
)
