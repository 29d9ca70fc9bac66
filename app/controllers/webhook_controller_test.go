package controllers

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81/webhook"
)

const testWebhookSecret = "whsec_test_secret"

func newWebhookTestApp() *fiber.App {
	app := fiber.New()
	app.Post("/webhooks/stripe", HandleStripeWebhook)
	return app
}

func signedHeader(t *testing.T, payload []byte, secret string) string {
	t.Helper()
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

func postWebhook(t *testing.T, app *fiber.App, payload []byte, signature string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("stripe-signature", signature)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestStripeWebhookMissingSignature(t *testing.T) {
	app := newWebhookTestApp()

	resp := postWebhook(t, app, []byte(`{}`), "")

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStripeWebhookMissingSecret(t *testing.T) {
	app := newWebhookTestApp()

	resp := postWebhook(t, app, []byte(`{}`), "t=1,v1=deadbeef")

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestStripeWebhookBadSignature(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", testWebhookSecret)
	app := newWebhookTestApp()

	payload := []byte(`{"id":"evt_1","type":"customer.created"}`)
	resp := postWebhook(t, app, payload, signedHeader(t, payload, "whsec_wrong_secret"))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStripeWebhookAcknowledgesUnsupportedEvents(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", testWebhookSecret)
	app := newWebhookTestApp()

	payload := []byte(`{"id":"evt_1","type":"customer.created","data":{"object":{"id":"cus_1"}}}`)
	resp := postWebhook(t, app, payload, signedHeader(t, payload, testWebhookSecret))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var got map[string]bool
	require.NoError(t, json.Unmarshal(body, &got))
	assert.True(t, got["received"])
}
