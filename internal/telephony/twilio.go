package telephony

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultAPIBaseURL is the Twilio REST API base URL.
const defaultAPIBaseURL = "https://api.twilio.com/2010-04-01"

// ClientConfig for the Twilio REST client.
type ClientConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string

	// BaseURL overrides the Twilio API endpoint; used by tests.
	BaseURL string
	// HTTPClient overrides the transport; a 15s-timeout client by default.
	HTTPClient *http.Client
}

// Client places outbound calls through the Twilio REST API.
//
// It is an adapter only: no business logic here. Call lifecycle decisions are
// made by the session state machine in response to webhook callbacks.
type Client struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.AccountSID) == "" {
		return nil, errors.New("telephony: account sid is required")
	}
	if cfg.AuthToken == "" {
		return nil, errors.New("telephony: auth token is required")
	}
	if strings.TrimSpace(cfg.FromNumber) == "" {
		return nil, errors.New("telephony: from number is required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultAPIBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
		baseURL:    base,
		httpClient: httpClient,
	}, nil
}

// OutboundCallRequest describes one dial-out.
type OutboundCallRequest struct {
	// To is the callee in E.164.
	To string
	// VoiceURL is invoked by Twilio when the call is answered.
	VoiceURL string
	// StatusCallbackURL receives lifecycle status events; optional.
	StatusCallbackURL string
}

// OutboundCall is Twilio's view of the created call.
type OutboundCall struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// PlaceCall creates an outbound call. The returned SID is the call
// identifier every later webhook carries.
func (c *Client) PlaceCall(ctx context.Context, req OutboundCallRequest) (OutboundCall, error) {
	if strings.TrimSpace(req.To) == "" {
		return OutboundCall{}, errors.New("telephony: to number is required")
	}
	if strings.TrimSpace(req.VoiceURL) == "" {
		return OutboundCall{}, errors.New("telephony: voice url is required")
	}

	form := url.Values{}
	form.Set("To", req.To)
	form.Set("From", c.from)
	form.Set("Url", req.VoiceURL)
	form.Set("Method", http.MethodPost)
	if req.StatusCallbackURL != "" {
		form.Set("StatusCallback", req.StatusCallbackURL)
		for _, ev := range []string{"initiated", "ringing", "answered", "completed"} {
			form.Add("StatusCallbackEvent", ev)
		}
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json", c.baseURL, c.accountSID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return OutboundCall{}, err
	}
	httpReq.SetBasicAuth(c.accountSID, c.authToken)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return OutboundCall{}, fmt.Errorf("telephony: call creation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return OutboundCall{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return OutboundCall{}, fmt.Errorf("telephony: call creation returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var call OutboundCall
	if err := json.Unmarshal(body, &call); err != nil {
		return OutboundCall{}, fmt.Errorf("telephony: invalid call creation response: %w", err)
	}
	if call.SID == "" {
		return OutboundCall{}, errors.New("telephony: call creation response missing sid")
	}
	return call, nil
}
