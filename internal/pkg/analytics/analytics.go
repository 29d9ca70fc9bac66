package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/startstack/startstack/internal/pkg/env"
)

const defaultPostHogHost = "https://eu.i.posthog.com"

// Client sends product analytics events to PostHog. Capture is
// fire-and-forget: failures are logged and never reach the caller.
type Client struct {
	APIKey string
	Host   string

	HTTPClient *http.Client
}

// NewClientFromEnv builds a client from POSTHOG_API_KEY and POSTHOG_HOST.
// With no key configured every capture is a logged no-op.
func NewClientFromEnv() *Client {
	return &Client{
		APIKey: strings.TrimSpace(env.GetEnv("POSTHOG_API_KEY", "")),
		Host:   strings.TrimRight(env.GetEnv("POSTHOG_HOST", defaultPostHogHost), "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Enabled() bool {
	return c.APIKey != ""
}

// Capture sends one event. Events without a distinct id get a random one; we
// track server-side flows, not browser sessions.
func (c *Client) Capture(event string, properties map[string]interface{}) {
	if !c.Enabled() {
		log.Printf("[analytics] disabled, dropping event %s", event)
		return
	}

	distinctID := uuid.NewString()
	if properties != nil {
		if v, ok := properties["distinctId"].(string); ok && v != "" {
			distinctID = v
			delete(properties, "distinctId")
		}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"api_key":     c.APIKey,
		"event":       event,
		"distinct_id": distinctID,
		"properties":  properties,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("[analytics] marshal event %s: %v", event, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Host+"/i/v0/e/", strings.NewReader(string(payload)))
	if err != nil {
		log.Printf("[analytics] build request for %s: %v", event, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Printf("[analytics] capture %s: %v", event, err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[analytics] capture %s failed: %v", event, fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body)))
	}
}
