package session

import (
	"testing"
	"time"

	"booking-agent/internal/booking"
)

func newTestSession(id string) *CallSession {
	req := booking.Request{CustomerName: "Alex", HairdresserPhone: "+15551234567", Service: "haircut"}
	return New(id, req, "Hello, salon!", "instructions", time.Unix(1700000000, 0))
}

func connect(t *testing.T, s *CallSession) {
	t.Helper()
	d := s.Apply(Answered{CarrierStatus: "in-progress"})
	if d.Action != ActionListen || d.Say != "Hello, salon!" {
		t.Fatalf("expected greeting + listen, got %+v", d)
	}
	if s.Status() != StatusConnected {
		t.Fatalf("expected connected, got %s", s.Status())
	}
}

func TestApply_AnsweredSpeaksGreetingOnce(t *testing.T) {
	s := newTestSession("CA1")
	connect(t, s)

	// Duplicate answer callback keeps listening without re-greeting.
	d := s.Apply(Answered{})
	if d.Action != ActionListen || d.Say != "" {
		t.Fatalf("expected silent listen on duplicate answer, got %+v", d)
	}

	snap := s.Snapshot()
	if len(snap.Transcript) != 1 || snap.Transcript[0].Role != RoleRequester {
		t.Fatalf("expected one requester transcript entry, got %+v", snap.Transcript)
	}
	if len(s.History()) != 0 {
		t.Fatalf("greeting must not enter delegate history")
	}
}

func TestApply_SpeechThenNonTerminalReply(t *testing.T) {
	s := newTestSession("CA1")
	connect(t, s)

	d := s.Apply(Speech{Text: "Which day suits you?"})
	if d.Action != ActionConsult {
		t.Fatalf("expected consult, got %+v", d)
	}

	d = s.Apply(DelegateReply{Text: "Friday would be great."})
	if d.Action != ActionListen || d.Say != "Friday would be great." {
		t.Fatalf("expected speak and keep listening, got %+v", d)
	}
	if s.Status() != StatusConnected {
		t.Fatalf("expected still connected")
	}

	hist := s.History()
	if len(hist) != 2 || hist[0].Role != RoleRespondent || hist[1].Role != RoleRequester {
		t.Fatalf("unexpected history: %+v", hist)
	}
}

func TestApply_TerminalReplySetsOutcomeOnce(t *testing.T) {
	s := newTestSession("CA1")
	connect(t, s)
	s.Apply(Speech{Text: "Friday at 3 works."})

	d := s.Apply(DelegateReply{
		Text:     "All set!",
		Terminal: true,
		Outcome:  &Outcome{Confirmed: true, Date: "Friday", Time: "3pm", Service: "haircut"},
	})
	if d.Action != ActionHangup || d.Say != "All set!" {
		t.Fatalf("expected speak then hang up, got %+v", d)
	}

	snap := s.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", snap.Status)
	}
	if snap.Outcome == nil || !snap.Outcome.Confirmed || snap.Outcome.Date != "Friday" {
		t.Fatalf("unexpected outcome: %+v", snap.Outcome)
	}
}

func TestApply_FirstTerminalDecisionWins(t *testing.T) {
	s := newTestSession("CA1")
	connect(t, s)
	s.Apply(Speech{Text: "yes"})
	s.Apply(DelegateReply{Terminal: true, Text: "Booked.", Outcome: &Outcome{Confirmed: true, Date: "Friday"}})

	// A later carrier "failed" callback must not alter status or outcome.
	d := s.Apply(CarrierUpdate{Status: "failed"})
	if d.Action != ActionNone {
		t.Fatalf("expected no instruction, got %+v", d)
	}
	snap := s.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status regressed to %s", snap.Status)
	}
	if snap.Outcome == nil || !snap.Outcome.Confirmed {
		t.Fatalf("outcome overwritten: %+v", snap.Outcome)
	}
	if snap.CarrierStatus != "failed" {
		t.Fatalf("carrier status must still be recorded, got %q", snap.CarrierStatus)
	}
}

func TestApply_CarrierTerminalMapsOneToOne(t *testing.T) {
	cases := map[string]Status{
		"completed": StatusCompleted,
		"failed":    StatusFailed,
		"busy":      StatusBusy,
		"no-answer": StatusNoAnswer,
		"canceled":  StatusCanceled,
	}
	for carrier, want := range cases {
		s := newTestSession("CA-" + carrier)
		s.Apply(CarrierUpdate{Status: carrier})
		snap := s.Snapshot()
		if snap.Status != want {
			t.Fatalf("%s: expected %s, got %s", carrier, want, snap.Status)
		}
		if snap.Outcome == nil || snap.Outcome.Confirmed {
			t.Fatalf("%s: expected unconfirmed outcome, got %+v", carrier, snap.Outcome)
		}
		if snap.Outcome.Reason != "call "+string(want) {
			t.Fatalf("%s: unexpected reason %q", carrier, snap.Outcome.Reason)
		}
	}
}

func TestApply_NonTerminalCarrierStatusesRecordedOnly(t *testing.T) {
	s := newTestSession("CA1")
	s.Apply(CarrierUpdate{Status: "initiated"})
	s.Apply(CarrierUpdate{Status: "ringing"})
	if s.Status() != StatusDialing {
		t.Fatalf("expected dialing, got %s", s.Status())
	}
	s.Apply(CarrierUpdate{Status: "in-progress"})
	if s.Status() != StatusConnected {
		t.Fatalf("expected connected after in-progress, got %s", s.Status())
	}
}

func TestApply_DelegateErrorFailsSession(t *testing.T) {
	s := newTestSession("CA1")
	connect(t, s)
	s.Apply(Speech{Text: "hello"})

	d := s.Apply(DelegateError{})
	if d.Action != ActionHangup || d.Say == "" {
		t.Fatalf("expected spoken apology + hangup, got %+v", d)
	}
	snap := s.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", snap.Status)
	}
	if snap.Outcome == nil || snap.Outcome.Reason != "technical error" {
		t.Fatalf("unexpected outcome: %+v", snap.Outcome)
	}

	// Delegate error after a terminal status is a no-op hangup.
	d = s.Apply(DelegateError{})
	if d.Action != ActionHangup || d.Say != "" {
		t.Fatalf("expected silent hangup, got %+v", d)
	}
}

func TestApply_NoSpeechRepromptsExactlyOnce(t *testing.T) {
	s := newTestSession("CA1")
	connect(t, s)

	d := s.Apply(NoSpeech{})
	if d.Action != ActionListen || d.Say != lineReprompt {
		t.Fatalf("expected one re-prompt, got %+v", d)
	}
	if s.Status() != StatusConnected {
		t.Fatalf("re-prompt must not terminate the session")
	}

	d = s.Apply(NoSpeech{})
	if d.Action != ActionHangup {
		t.Fatalf("expected hangup after second silence, got %+v", d)
	}
	snap := s.Snapshot()
	if snap.Status != StatusNoAnswer {
		t.Fatalf("expected no-answer, got %s", snap.Status)
	}
	if snap.Outcome == nil || snap.Outcome.Reason != "no response" {
		t.Fatalf("unexpected outcome: %+v", snap.Outcome)
	}
}

func TestApply_SpeechResetsReprompt(t *testing.T) {
	s := newTestSession("CA1")
	connect(t, s)

	s.Apply(NoSpeech{})
	s.Apply(Speech{Text: "sorry, I'm here"})
	s.Apply(DelegateReply{Text: "No problem."})

	// A fresh silence gets a fresh re-prompt.
	d := s.Apply(NoSpeech{})
	if d.Action != ActionListen || d.Say != lineReprompt {
		t.Fatalf("expected re-prompt after renewed silence, got %+v", d)
	}
}

func TestApply_SpeechIgnoredWhenNotConnected(t *testing.T) {
	s := newTestSession("CA1")
	d := s.Apply(Speech{Text: "hello?"})
	if d.Action != ActionHangup {
		t.Fatalf("expected hangup while dialing, got %+v", d)
	}

	s2 := newTestSession("CA2")
	connect(t, s2)
	s2.Apply(CarrierUpdate{Status: "canceled"})
	d = s2.Apply(Speech{Text: "late words"})
	if d.Action != ActionHangup {
		t.Fatalf("expected hangup on terminal session, got %+v", d)
	}
	if s2.Status() != StatusCanceled {
		t.Fatalf("status must not regress, got %s", s2.Status())
	}
}

func TestApply_DelegateReplyAfterCarrierTerminalKeepsCarrierOutcome(t *testing.T) {
	s := newTestSession("CA1")
	connect(t, s)
	s.Apply(Speech{Text: "hold on"})

	// Carrier wins the race while the delegate call is in flight.
	s.Apply(CarrierUpdate{Status: "canceled"})

	d := s.Apply(DelegateReply{Terminal: true, Text: "Booked!", Outcome: &Outcome{Confirmed: true}})
	if d.Action != ActionHangup {
		t.Fatalf("expected hangup, got %+v", d)
	}
	snap := s.Snapshot()
	if snap.Status != StatusCanceled {
		t.Fatalf("expected canceled kept, got %s", snap.Status)
	}
	if snap.Outcome == nil || snap.Outcome.Confirmed {
		t.Fatalf("carrier outcome must win, got %+v", snap.Outcome)
	}
}
