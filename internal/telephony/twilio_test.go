package telephony

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(ClientConfig{
		AccountSID: "AC123",
		AuthToken:  "token",
		FromNumber: "+15550001111",
		BaseURL:    baseURL,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return c
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	if _, err := NewClient(ClientConfig{AuthToken: "t", FromNumber: "+1"}); err == nil {
		t.Fatalf("expected error for missing account sid")
	}
	if _, err := NewClient(ClientConfig{AccountSID: "AC", FromNumber: "+1"}); err == nil {
		t.Fatalf("expected error for missing auth token")
	}
	if _, err := NewClient(ClientConfig{AccountSID: "AC", AuthToken: "t"}); err == nil {
		t.Fatalf("expected error for missing from number")
	}
}

func TestPlaceCall_SendsFormAndParsesSid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Accounts/AC123/Calls.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "token" {
			t.Errorf("expected basic auth")
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostFormValue("To") != "+15551234567" {
			t.Errorf("unexpected To %q", r.PostFormValue("To"))
		}
		if r.PostFormValue("From") != "+15550001111" {
			t.Errorf("unexpected From %q", r.PostFormValue("From"))
		}
		if r.PostFormValue("Url") != "https://example.com/twilio/voice" {
			t.Errorf("unexpected Url %q", r.PostFormValue("Url"))
		}
		if r.PostFormValue("StatusCallback") != "https://example.com/twilio/status" {
			t.Errorf("unexpected StatusCallback %q", r.PostFormValue("StatusCallback"))
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"sid": "CA777", "status": "queued"})
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	call, err := c.PlaceCall(context.Background(), OutboundCallRequest{
		To:                "+15551234567",
		VoiceURL:          "https://example.com/twilio/voice",
		StatusCallbackURL: "https://example.com/twilio/status",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if call.SID != "CA777" || call.Status != "queued" {
		t.Fatalf("unexpected call: %+v", call)
	}
}

func TestPlaceCall_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "bad credentials"}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.PlaceCall(context.Background(), OutboundCallRequest{To: "+1555", VoiceURL: "https://example.com/v"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestPlaceCall_RequiresToAndVoiceURL(t *testing.T) {
	c := testClient(t, "https://unused.invalid")
	if _, err := c.PlaceCall(context.Background(), OutboundCallRequest{VoiceURL: "https://x"}); err == nil {
		t.Fatalf("expected error for missing To")
	}
	if _, err := c.PlaceCall(context.Background(), OutboundCallRequest{To: "+1555"}); err == nil {
		t.Fatalf("expected error for missing voice url")
	}
}
