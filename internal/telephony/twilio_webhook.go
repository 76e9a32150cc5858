package telephony

import (
	"errors"
	"net/http"
	"strings"
)

// CallbackForm captures the subset of Twilio voice webhook fields we use.
// Twilio sends application/x-www-form-urlencoded by default.
type CallbackForm struct {
	CallSid    string
	CallStatus string
	From       string
	To         string

	// SpeechResult carries recognized speech on Gather action callbacks.
	// Empty on a no-speech timeout (actionOnEmptyResult).
	SpeechResult string
	Confidence   string

	CallDuration string
}

// ParseCallback parses a Twilio voice webhook request. CallSid is the only
// field every callback must carry.
func ParseCallback(r *http.Request) (CallbackForm, error) {
	if err := r.ParseForm(); err != nil {
		return CallbackForm{}, err
	}
	f := CallbackForm{
		CallSid:      strings.TrimSpace(r.PostFormValue("CallSid")),
		CallStatus:   r.PostFormValue("CallStatus"),
		From:         r.PostFormValue("From"),
		To:           r.PostFormValue("To"),
		SpeechResult: r.PostFormValue("SpeechResult"),
		Confidence:   r.PostFormValue("Confidence"),
		CallDuration: r.PostFormValue("CallDuration"),
	}
	if f.CallSid == "" {
		return CallbackForm{}, errors.New("telephony: callback missing CallSid")
	}
	return f, nil
}
