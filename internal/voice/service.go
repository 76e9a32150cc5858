package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"booking-agent/internal/audit"
	"booking-agent/internal/booking"
	"booking-agent/internal/delegate"
	"booking-agent/internal/session"
	"booking-agent/internal/telephony"
	"booking-agent/pkg/logger"
)

// ErrNotConfigured is returned when no public callback base URL is set; the
// carrier would have nowhere to deliver webhooks, so the call is never placed.
var ErrNotConfigured = errors.New("voice: public base url not configured")

// Dialer places the outbound call at the carrier.
type Dialer interface {
	PlaceCall(ctx context.Context, req telephony.OutboundCallRequest) (telephony.OutboundCall, error)
}

// Service is the callback router: it creates sessions at dial-out, dispatches
// each inbound carrier or delegate event to the session state machine, and
// hands the resulting decision back to the HTTP layer.
type Service struct {
	registry      *session.Registry
	delegate      delegate.Delegate
	dialer        Dialer
	audit         *audit.Service
	publicBaseURL string
	clock         func() time.Time
}

func NewService(registry *session.Registry, dlg delegate.Delegate, dialer Dialer, auditSvc *audit.Service, publicBaseURL string) *Service {
	return &Service{
		registry:      registry,
		delegate:      dlg,
		dialer:        dialer,
		audit:         auditSvc,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		clock:         time.Now,
	}
}

// StartCall validates the booking request, places the outbound call and
// registers a new session under the carrier-assigned call identifier.
func (s *Service) StartCall(ctx context.Context, req booking.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if s.publicBaseURL == "" {
		return "", ErrNotConfigured
	}

	call, err := s.dialer.PlaceCall(ctx, telephony.OutboundCallRequest{
		To:                req.HairdresserPhone,
		VoiceURL:          s.publicBaseURL + "/twilio/voice",
		StatusCallbackURL: s.publicBaseURL + "/twilio/status",
	})
	if err != nil {
		return "", fmt.Errorf("voice: dial-out failed: %w", err)
	}

	greeting := booking.Greeting(req)
	instructions := delegate.Instructions(req, greeting)
	sess := session.New(call.SID, req, greeting, instructions, s.clock())
	if err := s.registry.Create(sess); err != nil {
		return "", err
	}

	s.logEvent(ctx, call.SID, audit.EventTypeDialed, "outbound call placed")
	return call.SID, nil
}

// Lookup returns a consistent snapshot for the polling API.
func (s *Service) Lookup(id string) (session.Snapshot, error) {
	sess, err := s.registry.Get(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// Answered handles the carrier's call-answered webhook.
func (s *Service) Answered(ctx context.Context, callSid, carrierStatus string) (session.Decision, error) {
	sess, err := s.registry.Get(callSid)
	if err != nil {
		return session.Decision{}, err
	}
	d := sess.Apply(session.Answered{CarrierStatus: carrierStatus})
	s.logEvent(ctx, callSid, audit.EventTypeAnswered, "call answered")
	return d, nil
}

// SpokenInput handles a post-speech webhook. An empty text is the carrier's
// no-speech timeout. When the machine asks for a consult, the delegate is
// invoked outside any session lock and its result (or failure) is applied as
// a second transition, so a terminal decision that landed in the meantime
// still wins.
func (s *Service) SpokenInput(ctx context.Context, callSid, text string) (session.Decision, error) {
	sess, err := s.registry.Get(callSid)
	if err != nil {
		return session.Decision{}, err
	}

	if strings.TrimSpace(text) == "" {
		d := sess.Apply(session.NoSpeech{})
		if d.Action == session.ActionHangup {
			s.logEvent(ctx, callSid, audit.EventTypeTerminal, "no response")
		}
		return d, nil
	}

	d := sess.Apply(session.Speech{Text: text})
	if d.Action != session.ActionConsult {
		return d, nil
	}

	raw, err := s.delegate.NextTurn(ctx, sess.Instructions(), historyTurns(sess))
	if err != nil {
		logger.From(ctx).Error("delegate call failed", "call_sid", callSid, "err", err)
		d = sess.Apply(session.DelegateError{})
		s.logEvent(ctx, callSid, audit.EventTypeTerminal, "delegate failure")
		return d, nil
	}

	reply := delegate.Parse(raw)
	d = sess.Apply(session.DelegateReply{
		Text:     reply.Text,
		Terminal: reply.Terminal(),
		Outcome:  outcomeFromReply(reply),
	})
	if reply.Terminal() {
		s.logEvent(ctx, callSid, audit.EventTypeTerminal, string(reply.Kind))
	} else {
		s.logEvent(ctx, callSid, audit.EventTypeTurn, "turn exchanged")
	}
	return d, nil
}

// CarrierStatus handles a lifecycle status webhook.
func (s *Service) CarrierStatus(ctx context.Context, callSid, status string) error {
	sess, err := s.registry.Get(callSid)
	if err != nil {
		return err
	}
	sess.Apply(session.CarrierUpdate{Status: status})
	s.logEvent(ctx, callSid, audit.EventTypeCarrier, status)
	return nil
}

func (s *Service) logEvent(ctx context.Context, callSid string, t audit.EventType, msg string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(ctx, callSid, t, msg); err != nil {
		logger.From(ctx).Warn("audit append failed", "call_sid", callSid, "type", t, "err", err)
	}
}

// historyTurns converts the session's delegate history to wire roles.
func historyTurns(sess *session.CallSession) []delegate.Turn {
	entries := sess.History()
	out := make([]delegate.Turn, 0, len(entries))
	for _, e := range entries {
		role := delegate.RoleAssistant
		if e.Role == session.RoleRespondent {
			role = delegate.RoleUser
		}
		out = append(out, delegate.Turn{Role: role, Content: e.Text})
	}
	return out
}

func outcomeFromReply(r delegate.Reply) *session.Outcome {
	switch r.Kind {
	case delegate.KindConfirmed:
		return &session.Outcome{
			Confirmed: true,
			Date:      r.Confirmation.Date,
			Time:      r.Confirmation.Time,
			Service:   r.Confirmation.Service,
			Notes:     r.Confirmation.Notes,
		}
	case delegate.KindFailed:
		return &session.Outcome{Reason: r.Failure.Reason}
	case delegate.KindMalformedTerminal:
		// Keep the terminal decision; the unparsed payload is the best
		// record we have of what the delegate decided.
		if r.ConfirmedMarker {
			return &session.Outcome{Confirmed: true, Notes: r.RawPayload}
		}
		return &session.Outcome{Reason: r.RawPayload}
	}
	return nil
}
