package delegate

import (
	"fmt"
	"strings"

	"booking-agent/internal/booking"
)

// Instructions builds the fixed behavioral script for one call. It is
// constructed once per session from the booking request and the greeting
// already spoken, and reused unchanged for every turn.
func Instructions(req booking.Request, greeting string) string {
	var prefs []string
	if d := strings.TrimSpace(req.PreferredDate); d != "" {
		prefs = append(prefs, "preferred date: "+d)
	}
	if t := strings.TrimSpace(req.PreferredTime); t != "" {
		prefs = append(prefs, "preferred time: "+t)
	}
	preference := "The customer is flexible; aim for the next available slot."
	if len(prefs) > 0 {
		preference = "Customer preference — " + strings.Join(prefs, ", ") + ". Accept a nearby alternative if the preference is unavailable."
	}

	return fmt.Sprintf(`You are a polite assistant on a live phone call with %s, booking a %s appointment on behalf of %s.

You already opened the call with: %q

%s

Rules for the call:
- You are speaking out loud. Keep every reply short, natural and conversational.
- Stay on the booking; politely steer back if the conversation drifts.
- Never invent details the other person did not give you.

When the appointment is agreed, finish your reply with a line of exactly this form:
%s {"date": "...", "time": "...", "service": "...", "notes": "..."}

If it becomes clear no appointment can be booked, finish with:
%s {"reason": "..."}

Do not emit either line until the call has genuinely reached that point.`,
		req.SalonName(), req.Service, req.CustomerName, greeting, preference, markerConfirmed, markerFailed)
}
