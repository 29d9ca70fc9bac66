package newsletter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		APIKey:     "re_test",
		AudienceID: "aud_123",
		APIBaseURL: srv.URL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestSubscribe(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv)
	if err := c.Subscribe(context.Background(), "buyer@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "POST /audiences/aud_123/contacts" {
		t.Fatalf("unexpected request %q", gotPath)
	}
	if gotAuth != "Bearer re_test" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotBody["email"] != "buyer@example.com" || gotBody["unsubscribed"] != false {
		t.Fatalf("unexpected body: %v", gotBody)
	}
}

func TestUnsubscribe(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv)
	if err := c.Unsubscribe(context.Background(), "buyer@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "DELETE /audiences/aud_123/contacts/buyer@example.com" {
		t.Fatalf("unexpected request %q", gotPath)
	}
}

func TestSubscribeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := testClient(srv)
	if err := c.Subscribe(context.Background(), "buyer@example.com"); err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}

func TestDisabledClient(t *testing.T) {
	c := &Client{HTTPClient: http.DefaultClient}
	if c.Enabled() {
		t.Fatalf("unconfigured client must report disabled")
	}
	if err := c.Subscribe(context.Background(), "buyer@example.com"); err == nil {
		t.Fatalf("expected error when not configured")
	}
}
