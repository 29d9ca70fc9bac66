package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v81"
)

// supportedEvents is the allow-list of webhook event types the service
// reconciles. Anything else is acknowledged and ignored.
var supportedEvents = map[stripe.EventType]struct{}{
	"checkout.session.completed":    {},
	"customer.subscription.deleted": {},
	"customer.subscription.updated": {},
	"invoice.finalized":             {},
	"invoice.paid":                  {},
	"payment_method.attached":       {},
	"product.created":               {},
	"product.deleted":               {},
	"product.updated":               {},
	"price.created":                 {},
	"price.deleted":                 {},
	"price.updated":                 {},
}

// IsSupportedEvent reports whether the event type is on the allow-list.
func IsSupportedEvent(eventType stripe.EventType) bool {
	_, ok := supportedEvents[eventType]
	return ok
}

// HandleEvent routes a verified webhook event to the matching reconciler.
// Only the resource id is taken from the payload; reconcilers re-fetch the
// resource from the gateway so stale snapshots never reach the database.
func (s *Service) HandleEvent(ctx context.Context, event stripe.Event) error {
	id, err := eventObjectID(event)
	if err != nil {
		return fmt.Errorf("event %s (%s): %w", event.ID, event.Type, err)
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.CompleteCheckout(ctx, id)
	case "customer.subscription.deleted", "customer.subscription.updated":
		return s.UpdateSubscription(ctx, id)
	case "payment_method.attached":
		return s.AttachPaymentMethod(ctx, id)
	case "invoice.finalized", "invoice.paid":
		return s.UpsertInvoice(ctx, id)
	case "product.created", "product.updated":
		return s.UpsertProduct(ctx, id)
	case "product.deleted":
		return s.DeleteProduct(ctx, id)
	case "price.created", "price.updated":
		return s.UpsertPrice(ctx, id)
	case "price.deleted":
		return s.DeletePrice(ctx, id)
	default:
		return nil
	}
}

func eventObjectID(event stripe.Event) (string, error) {
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(event.Data.Raw, &obj); err != nil {
		return "", fmt.Errorf("decode event object: %w", err)
	}
	if obj.ID == "" {
		return "", fmt.Errorf("event object has no id")
	}
	return obj.ID, nil
}
