package telephony

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestValidSignature_RoundTrip(t *testing.T) {
	form := url.Values{}
	form.Set("CallSid", "CA123")
	form.Set("CallStatus", "completed")

	full := "https://example.com/twilio/status"
	sig := Signature("token", full, form)
	if sig == "" {
		t.Fatalf("expected signature")
	}
	if !ValidSignature("token", full, form, sig) {
		t.Fatalf("expected signature to validate")
	}
	if ValidSignature("other-token", full, form, sig) {
		t.Fatalf("expected mismatch for wrong token")
	}
	if ValidSignature("token", full+"?x=1", form, sig) {
		t.Fatalf("expected mismatch for different url")
	}
}

func TestRequireValidSignature_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireValidSignature("token", "https://example.com"))
	r.POST("/twilio/status", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	form := url.Values{}
	form.Set("CallSid", "CA123")

	do := func(sig string) int {
		req := httptest.NewRequest(http.MethodPost, "/twilio/status", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if sig != "" {
			req.Header.Set("X-Twilio-Signature", sig)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	good := Signature("token", "https://example.com/twilio/status", form)
	if code := do(good); code != http.StatusOK {
		t.Fatalf("expected 200 for valid signature, got %d", code)
	}
	if code := do("bogus"); code != http.StatusForbidden {
		t.Fatalf("expected 403 for invalid signature, got %d", code)
	}
	if code := do(""); code != http.StatusForbidden {
		t.Fatalf("expected 403 for missing signature, got %d", code)
	}
}
