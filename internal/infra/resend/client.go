// Package resend delivers transactional email through the Resend API.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cpghub_cleanup/internal/domain/mail"

	resendsdk "github.com/resend/resend-go/v2"
)

const maxResponseBody = 1 << 20

// EmailDeliveryError is returned when the email service rejects a send.
type EmailDeliveryError struct {
	Status  int
	Message string
}

func (e *EmailDeliveryError) Error() string {
	if e.Status == 0 {
		return "email delivery failed: " + e.Message
	}
	return fmt.Sprintf("email delivery failed (%d): %s", e.Status, e.Message)
}

// Config captures the client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// Client implements mail.Mailer on top of the Resend SDK.
type Client struct {
	apiKey    string
	sdk       *resendsdk.Client
	configErr error
}

var _ mail.Mailer = (*Client)(nil)

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := &http.Client{Timeout: timeout}
	if cfg.Client != nil {
		copied := *cfg.Client
		hc = &copied
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = exchangeRecorder{base: base}

	c := &Client{
		apiKey: strings.TrimSpace(cfg.APIKey),
		sdk:    resendsdk.NewCustomClient(hc, strings.TrimSpace(cfg.APIKey)),
	}
	if raw := strings.TrimSpace(cfg.BaseURL); raw != "" {
		// The SDK resolves "emails" relative to BaseURL, so it needs the trailing slash.
		u, err := url.Parse(strings.TrimRight(raw, "/") + "/")
		if err != nil {
			c.configErr = fmt.Errorf("invalid email API URL %q: %w", raw, err)
		} else {
			c.sdk.BaseURL = u
		}
	}
	return c
}

// Send submits one message. There is no retry.
func (c *Client) Send(ctx context.Context, msg mail.Message) error {
	if c.apiKey == "" {
		return &EmailDeliveryError{Message: "RESEND_API_KEY is not configured"}
	}
	if c.configErr != nil {
		return c.configErr
	}
	if len(msg.To) == 0 {
		return errors.New("email has no recipients")
	}

	ex := &exchange{}
	_, err := c.sdk.Emails.SendWithContext(context.WithValue(ctx, exchangeKey{}, ex), &resendsdk.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		if ex.status == 0 {
			return fmt.Errorf("email request failed: %w", err)
		}
		text, ok := bodyMessage(ex.body)
		if !ok {
			text = strings.TrimSpace(strings.TrimPrefix(err.Error(), "[ERROR]:"))
		}
		return &EmailDeliveryError{Status: ex.status, Message: text}
	}

	// A 2xx answer can still carry an error object.
	if text, failed := bodyError(ex.body); failed {
		return &EmailDeliveryError{Status: ex.status, Message: text}
	}
	return nil
}

// exchange holds the status and body of the single request a Send makes.
type exchange struct {
	status int
	body   []byte
}

type exchangeKey struct{}

// exchangeRecorder copies the response into the exchange attached to the request context
// and hands the SDK an unread body.
type exchangeRecorder struct {
	base http.RoundTripper
}

func (t exchangeRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	ex, ok := req.Context().Value(exchangeKey{}).(*exchange)
	if !ok {
		return resp, nil
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read email response: %w", err)
	}
	ex.status = resp.StatusCode
	ex.body = raw
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	return resp, nil
}

// apiResponse covers both shapes the API answers with.
type apiResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Error   any    `json:"error"`
}

func bodyError(raw []byte) (string, bool) {
	var out apiResponse
	if err := json.Unmarshal(raw, &out); err != nil || out.Error == nil {
		return "", false
	}
	if text, ok := bodyMessage(raw); ok {
		return text, true
	}
	return strings.TrimSpace(string(raw)), true
}

func bodyMessage(raw []byte) (string, bool) {
	var out apiResponse
	if err := json.Unmarshal(raw, &out); err == nil {
		switch v := out.Error.(type) {
		case string:
			if v != "" {
				return v, true
			}
		case map[string]any:
			if m, ok := v["message"].(string); ok && m != "" {
				return m, true
			}
		}
		if out.Message != "" {
			return out.Message, true
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" && !strings.HasPrefix(text, "{") {
		return text, true
	}
	return "", false
}
