package session

import "sync"

// Role identifies who spoke a transcript entry.
type Role string

const (
	// RoleRequester is our side of the call (greeting and delegate lines).
	RoleRequester Role = "requester"
	// RoleRespondent is the human who answered the call.
	RoleRespondent Role = "respondent"
)

// Entry is one spoken turn.
type Entry struct {
	Role Role   `json:"speaker"`
	Text string `json:"text"`
}

// Transcript is an append-only ordered record of turns.
//
// No mutation or deletion API exists. Reads return a copy of the sequence at
// the time of the read, so concurrent readers never observe an entry
// mid-append.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
}

func NewTranscript() *Transcript { return &Transcript{} }

func (t *Transcript) Append(role Role, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Entry{Role: role, Text: text})
}

// Entries returns the full ordered sequence as a copy.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
