package telephony

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// Signature computes the expected X-Twilio-Signature for a webhook request:
// HMAC-SHA1 over the full request URL with each POST parameter name and value
// appended in lexical key order, base64 encoded.
func Signature(authToken, fullURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(fullURL)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(form.Get(k))
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ValidSignature checks a presented signature in constant time.
func ValidSignature(authToken, fullURL string, form url.Values, presented string) bool {
	want := Signature(authToken, fullURL, form)
	return hmac.Equal([]byte(want), []byte(presented))
}

// RequireValidSignature is gin middleware rejecting webhook requests whose
// X-Twilio-Signature does not match. publicBaseURL must be the externally
// visible base URL Twilio was given, since the signature covers the full URL.
func RequireValidSignature(authToken, publicBaseURL string) gin.HandlerFunc {
	base := strings.TrimRight(publicBaseURL, "/")
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
			return
		}
		fullURL := base + c.Request.URL.RequestURI()
		if !ValidSignature(authToken, fullURL, c.Request.PostForm, c.GetHeader("X-Twilio-Signature")) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid signature"})
			return
		}
		c.Next()
	}
}
