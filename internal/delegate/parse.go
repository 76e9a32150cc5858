package delegate

import (
	"encoding/json"
	"strings"
)

// Outcome markers embedded in the raw delegate output. The marker and its
// payload are stripped from the spoken text before it reaches the carrier.
const (
	markerConfirmed = "APPOINTMENT_CONFIRMED:"
	markerFailed    = "APPOINTMENT_FAILED:"
)

type Kind string

const (
	KindNonTerminal       Kind = "non_terminal"
	KindConfirmed         Kind = "confirmed"
	KindFailed            Kind = "failed"
	KindMalformedTerminal Kind = "malformed_terminal"
)

// Confirmation is the payload of a confirmed booking marker.
type Confirmation struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Service string `json:"service"`
	Notes   string `json:"notes"`
}

// Failure is the payload of a failed booking marker.
type Failure struct {
	Reason string `json:"reason"`
}

// Reply is the tagged parse result of one raw delegate completion.
// Exactly one variant applies, selected by Kind.
type Reply struct {
	Kind Kind

	// Text is the spoken line with any marker stripped.
	Text string

	// Confirmation is set when Kind is KindConfirmed.
	Confirmation Confirmation
	// Failure is set when Kind is KindFailed.
	Failure Failure

	// RawPayload holds the unparsed marker payload verbatim when Kind is
	// KindMalformedTerminal.
	RawPayload string
	// ConfirmedMarker reports which marker produced a malformed terminal.
	ConfirmedMarker bool
}

// Terminal reports whether the reply ends the call.
func (r Reply) Terminal() bool { return r.Kind != KindNonTerminal }

// Parse splits raw delegate output into spoken text and an optional terminal
// marker. A marker whose payload fails to parse still ends the call: the
// payload is retained verbatim rather than the terminal decision being lost.
func Parse(raw string) Reply {
	idxC := strings.Index(raw, markerConfirmed)
	idxF := strings.Index(raw, markerFailed)

	if idxC < 0 && idxF < 0 {
		return Reply{Kind: KindNonTerminal, Text: strings.TrimSpace(raw)}
	}

	// Earliest marker wins if the model emitted both.
	confirmed := idxF < 0 || (idxC >= 0 && idxC < idxF)
	idx, marker := idxF, markerFailed
	if confirmed {
		idx, marker = idxC, markerConfirmed
	}

	text := strings.TrimSpace(raw[:idx])
	payload := strings.TrimSpace(raw[idx+len(marker):])

	if confirmed {
		var conf Confirmation
		if err := json.Unmarshal([]byte(payload), &conf); err != nil {
			return Reply{Kind: KindMalformedTerminal, Text: text, RawPayload: payload, ConfirmedMarker: true}
		}
		return Reply{Kind: KindConfirmed, Text: text, Confirmation: conf}
	}

	var f Failure
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return Reply{Kind: KindMalformedTerminal, Text: text, RawPayload: payload}
	}
	return Reply{Kind: KindFailed, Text: text, Failure: f}
}
