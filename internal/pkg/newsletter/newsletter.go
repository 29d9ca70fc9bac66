package newsletter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/startstack/startstack/internal/pkg/env"
)

const defaultResendAPIBaseURL = "https://api.resend.com"

// Client manages contacts in a Resend audience. The audience captures the
// newsletter consent collected at checkout.
type Client struct {
	APIKey     string
	AudienceID string
	APIBaseURL string

	HTTPClient *http.Client
}

// NewClientFromEnv builds a client from RESEND_API_KEY and
// RESEND_AUDIENCE_ID. Enabled reports whether both are configured.
func NewClientFromEnv() *Client {
	return &Client{
		APIKey:     strings.TrimSpace(env.GetEnv("RESEND_API_KEY", "")),
		AudienceID: strings.TrimSpace(env.GetEnv("RESEND_AUDIENCE_ID", "")),
		APIBaseURL: strings.TrimRight(env.GetEnv("RESEND_API_BASE_URL", defaultResendAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) Enabled() bool {
	return c.APIKey != "" && c.AudienceID != ""
}

// Subscribe adds the email to the audience (or reactivates it).
func (c *Client) Subscribe(ctx context.Context, email string) error {
	if !c.Enabled() {
		return errors.New("newsletter is not configured")
	}
	if strings.TrimSpace(email) == "" {
		return errors.New("email is required")
	}

	payload, err := json.Marshal(map[string]interface{}{
		"email":        strings.TrimSpace(email),
		"unsubscribed": false,
	})
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/audiences/%s/contacts", c.APIBaseURL, c.AudienceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	return c.do(req)
}

// Unsubscribe removes the email from the audience.
func (c *Client) Unsubscribe(ctx context.Context, email string) error {
	if !c.Enabled() {
		return errors.New("newsletter is not configured")
	}
	if strings.TrimSpace(email) == "" {
		return errors.New("email is required")
	}

	u := fmt.Sprintf("%s/audiences/%s/contacts/%s", c.APIBaseURL, c.AudienceID, strings.TrimSpace(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("newsletter request failed: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}
