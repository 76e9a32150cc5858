package telephony

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func callbackRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/twilio/gather", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestParseCallback_SpeechResult(t *testing.T) {
	r := callbackRequest(t, "CallSid=CA123&SpeechResult=Friday+at+3+works&Confidence=0.91&CallStatus=in-progress")
	f, err := ParseCallback(r)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f.CallSid != "CA123" {
		t.Fatalf("unexpected CallSid %q", f.CallSid)
	}
	if f.SpeechResult != "Friday at 3 works" {
		t.Fatalf("unexpected SpeechResult %q", f.SpeechResult)
	}
	if f.CallStatus != "in-progress" {
		t.Fatalf("unexpected CallStatus %q", f.CallStatus)
	}
}

func TestParseCallback_EmptySpeechIsAllowed(t *testing.T) {
	f, err := ParseCallback(callbackRequest(t, "CallSid=CA123"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f.SpeechResult != "" {
		t.Fatalf("expected empty speech result")
	}
}

func TestParseCallback_MissingCallSid(t *testing.T) {
	if _, err := ParseCallback(callbackRequest(t, "CallStatus=completed")); err == nil {
		t.Fatalf("expected error")
	}
}
