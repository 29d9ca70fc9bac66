package payments

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stripe/stripe-go/v81"

	"github.com/startstack/startstack/app/models"
)

func stripeEvent(eventType stripe.EventType, objectID string) stripe.Event {
	raw, _ := json.Marshal(map[string]string{"id": objectID})
	return stripe.Event{
		ID:   "evt_123",
		Type: eventType,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestIsSupportedEvent(t *testing.T) {
	tests := []struct {
		eventType stripe.EventType
		want      bool
	}{
		{eventType: "checkout.session.completed", want: true},
		{eventType: "customer.subscription.updated", want: true},
		{eventType: "customer.subscription.deleted", want: true},
		{eventType: "invoice.finalized", want: true},
		{eventType: "invoice.paid", want: true},
		{eventType: "payment_method.attached", want: true},
		{eventType: "product.created", want: true},
		{eventType: "product.updated", want: true},
		{eventType: "product.deleted", want: true},
		{eventType: "price.created", want: true},
		{eventType: "price.updated", want: true},
		{eventType: "price.deleted", want: true},
		{eventType: "customer.created", want: false},
		{eventType: "charge.succeeded", want: false},
		{eventType: "invoice.payment_failed", want: false},
	}

	for _, tt := range tests {
		if got := IsSupportedEvent(tt.eventType); got != tt.want {
			t.Fatalf("IsSupportedEvent(%q) = %v, want %v", tt.eventType, got, tt.want)
		}
	}
}

func TestHandleEventRoutesProductUpsert(t *testing.T) {
	repo := newFakeRepository()
	gw := &fakeGateway{product: &stripe.Product{ID: "prod_123", Active: true, Name: "Pro"}}
	s := newTestService(repo, gw)

	if err := s.HandleEvent(context.Background(), stripeEvent("product.created", "prod_123")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.products["prod_123"] == nil {
		t.Fatalf("expected the product reconciler to run")
	}
}

func TestHandleEventRoutesPriceDelete(t *testing.T) {
	repo := newFakeRepository()
	repo.prices["price_123"] = &models.Price{ID: "price_123", Active: true}
	s := newTestService(repo, &fakeGateway{})

	if err := s.HandleEvent(context.Background(), stripeEvent("price.deleted", "price_123")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.prices["price_123"]; ok {
		t.Fatalf("expected the price to be removed")
	}
}

func TestHandleEventIgnoresUnsupportedType(t *testing.T) {
	repo := newFakeRepository()
	s := newTestService(repo, &fakeGateway{})

	if err := s.HandleEvent(context.Background(), stripeEvent("charge.succeeded", "ch_123")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.productUpserts+repo.priceUpserts+repo.invoiceUpserts+repo.subSaves != 0 {
		t.Fatalf("expected no writes for an unsupported event")
	}
}

func TestHandleEventRejectsPayloadWithoutID(t *testing.T) {
	s := newTestService(newFakeRepository(), &fakeGateway{})

	event := stripe.Event{
		ID:   "evt_123",
		Type: "product.created",
		Data: &stripe.EventData{Raw: json.RawMessage(`{}`)},
	}
	if err := s.HandleEvent(context.Background(), event); err == nil {
		t.Fatalf("expected an error for a payload without an object id")
	}
}

func TestHandleEventOnlyUsesObjectID(t *testing.T) {
	// the payload carries a stale name; the reconciler must use the
	// gateway's current state instead
	repo := newFakeRepository()
	gw := &fakeGateway{product: &stripe.Product{ID: "prod_123", Active: true, Name: "Fresh"}}
	s := newTestService(repo, gw)

	raw, _ := json.Marshal(map[string]interface{}{"id": "prod_123", "name": "Stale"})
	event := stripe.Event{ID: "evt_123", Type: "product.updated", Data: &stripe.EventData{Raw: raw}}

	if err := s.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.products["prod_123"].Name; got != "Fresh" {
		t.Fatalf("expected the re-fetched name, got %q", got)
	}
}
