package booking

import (
	"fmt"
	"strings"
)

// Greeting composes the opening line spoken as soon as the call is answered.
// Pure string composition; no failure modes.
func Greeting(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello! I'm an assistant calling on behalf of %s to book a %s appointment at %s.",
		req.CustomerName, req.Service, req.SalonName())

	date := strings.TrimSpace(req.PreferredDate)
	tm := strings.TrimSpace(req.PreferredTime)
	switch {
	case date != "" && tm != "":
		fmt.Fprintf(&b, " %s would prefer %s at %s.", req.CustomerName, date, tm)
	case date != "":
		fmt.Fprintf(&b, " %s would prefer %s.", req.CustomerName, date)
	case tm != "":
		fmt.Fprintf(&b, " %s would prefer sometime around %s.", req.CustomerName, tm)
	default:
		fmt.Fprintf(&b, " %s is flexible, so the next available slot would be great.", req.CustomerName)
	}

	b.WriteString(" Would that be possible?")
	return b.String()
}
