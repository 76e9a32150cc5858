package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Request captures what the customer wants booked.
//
// It is immutable for the lifetime of a call session: the greeting and the
// delegate instructions are derived from it exactly once at dial-out.
type Request struct {
	CustomerName     string `json:"customerName"`
	HairdresserPhone string `json:"hairdresserPhone"`
	HairdresserName  string `json:"hairdresserName,omitempty"`
	Service          string `json:"service"`
	PreferredDate    string `json:"preferredDate,omitempty"`
	PreferredTime    string `json:"preferredTime,omitempty"`
}

var ErrInvalidArgument = errors.New("booking: invalid argument")

// Validate checks the fields required before a call may be placed.
// Preferred date and time are optional; the greeting falls back to
// "flexible" phrasing when they are absent.
func (r Request) Validate() error {
	var missing []string
	if strings.TrimSpace(r.CustomerName) == "" {
		missing = append(missing, "customerName")
	}
	if strings.TrimSpace(r.HairdresserPhone) == "" {
		missing = append(missing, "hairdresserPhone")
	}
	if strings.TrimSpace(r.Service) == "" {
		missing = append(missing, "service")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidArgument, strings.Join(missing, ", "))
	}

	num, err := phonenumbers.Parse(r.HairdresserPhone, "")
	if err != nil {
		return fmt.Errorf("%w: hairdresserPhone must be E.164 (e.g. +15551234567)", ErrInvalidArgument)
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return fmt.Errorf("%w: hairdresserPhone is not a possible phone number", ErrInvalidArgument)
	}
	return nil
}

// SalonName returns the salon display name, defaulting when absent.
func (r Request) SalonName() string {
	if s := strings.TrimSpace(r.HairdresserName); s != "" {
		return s
	}
	return "your salon"
}
