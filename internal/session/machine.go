package session

// Event is one inbound signal for the state machine: a carrier lifecycle
// callback, recognized speech, or a delegate result.
type Event interface{ isEvent() }

// Answered signals the carrier reported the call picked up.
type Answered struct {
	CarrierStatus string
}

// Speech carries recognized respondent speech.
type Speech struct {
	Text string
}

// NoSpeech signals the carrier's listening window elapsed with no input.
type NoSpeech struct{}

// DelegateReply carries a parsed delegate result back into the machine.
type DelegateReply struct {
	Text     string
	Terminal bool
	Outcome  *Outcome
}

// DelegateError signals the delegate backend call itself failed.
type DelegateError struct{}

// CarrierUpdate carries a raw lifecycle status from the carrier.
type CarrierUpdate struct {
	Status string
}

func (Answered) isEvent()      {}
func (Speech) isEvent()        {}
func (NoSpeech) isEvent()      {}
func (DelegateReply) isEvent() {}
func (DelegateError) isEvent() {}
func (CarrierUpdate) isEvent() {}

// Action is what the callback router should instruct the carrier to do next.
type Action string

const (
	// ActionNone acknowledges the event with no carrier instruction.
	ActionNone Action = "none"
	// ActionConsult asks the router to invoke the delegate and apply the
	// result as a DelegateReply or DelegateError event.
	ActionConsult Action = "consult"
	// ActionListen speaks Say (if non-empty) and keeps listening.
	ActionListen Action = "listen"
	// ActionHangup speaks Say (if non-empty) and ends the call.
	ActionHangup Action = "hangup"
)

// Decision is the instruction derived from one transition.
type Decision struct {
	Action Action
	Say    string
}

// Apply runs one state-machine transition and returns the resulting
// instruction. All transitions for a session are serialized here, which makes
// "first terminal decision wins" a single guarded check: once a terminal
// status is set, later terminal signals only record carrierStatus.
func (s *CallSession) Apply(ev Event) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev := ev.(type) {
	case Answered:
		if ev.CarrierStatus != "" {
			s.carrierStatus = ev.CarrierStatus
		}
		if s.status.Terminal() {
			return Decision{Action: ActionHangup}
		}
		if s.status == StatusConnected {
			// Duplicate answer callback; keep listening.
			return Decision{Action: ActionListen}
		}
		s.status = StatusConnected
		s.transcript.Append(RoleRequester, s.greeting)
		return Decision{Action: ActionListen, Say: s.greeting}

	case Speech:
		if s.status != StatusConnected {
			return Decision{Action: ActionHangup}
		}
		s.reprompted = false
		s.history.Append(RoleRespondent, ev.Text)
		s.transcript.Append(RoleRespondent, ev.Text)
		return Decision{Action: ActionConsult}

	case DelegateReply:
		if s.status.Terminal() {
			return Decision{Action: ActionHangup}
		}
		if ev.Text != "" {
			s.history.Append(RoleRequester, ev.Text)
			s.transcript.Append(RoleRequester, ev.Text)
		}
		if !ev.Terminal {
			return Decision{Action: ActionListen, Say: ev.Text}
		}
		s.status = StatusCompleted
		s.setOutcomeLocked(ev.Outcome)
		return Decision{Action: ActionHangup, Say: ev.Text}

	case DelegateError:
		if s.status != StatusConnected {
			return Decision{Action: ActionHangup}
		}
		s.status = StatusFailed
		s.setOutcomeLocked(&Outcome{Reason: "technical error"})
		return Decision{Action: ActionHangup, Say: lineTechTrouble}

	case NoSpeech:
		if s.status != StatusConnected {
			return Decision{Action: ActionHangup}
		}
		if !s.reprompted {
			// One re-prompt with a fresh listening window before giving up.
			s.reprompted = true
			return Decision{Action: ActionListen, Say: lineReprompt}
		}
		s.status = StatusNoAnswer
		s.setOutcomeLocked(&Outcome{Reason: "no response"})
		return Decision{Action: ActionHangup, Say: lineNoReply}

	case CarrierUpdate:
		s.carrierStatus = ev.Status
		if s.status.Terminal() {
			return Decision{Action: ActionNone}
		}
		if st, ok := terminalFromCarrier(ev.Status); ok {
			s.status = st
			s.setOutcomeLocked(&Outcome{Reason: "call " + string(st)})
			return Decision{Action: ActionNone}
		}
		if s.status == StatusDialing && (ev.Status == "in-progress" || ev.Status == "answered") {
			s.status = StatusConnected
		}
		return Decision{Action: ActionNone}
	}

	return Decision{Action: ActionNone}
}

// setOutcomeLocked applies the first-writer-wins rule. Callers hold s.mu.
func (s *CallSession) setOutcomeLocked(o *Outcome) {
	if s.outcome != nil || o == nil {
		return
	}
	cp := *o
	s.outcome = &cp
}

// terminalFromCarrier maps carrier terminal lifecycle statuses 1:1 onto
// session statuses.
func terminalFromCarrier(status string) (Status, bool) {
	switch status {
	case "completed":
		return StatusCompleted, true
	case "failed":
		return StatusFailed, true
	case "busy":
		return StatusBusy, true
	case "no-answer":
		return StatusNoAnswer, true
	case "canceled":
		return StatusCanceled, true
	}
	return "", false
}
