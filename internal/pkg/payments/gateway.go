package payments

import (
	"context"

	"github.com/stripe/stripe-go/v81"
)

// Gateway wraps the calls we make against the payment processor's API.
// Reconcilers always re-fetch resources through it instead of trusting
// webhook payload snapshots; by the time an event is processed the resource
// may have changed again.
type Gateway interface {
	Price(ctx context.Context, id string) (*stripe.Price, error)
	Product(ctx context.Context, id string) (*stripe.Product, error)
	Subscription(ctx context.Context, id string) (*stripe.Subscription, error)
	PaymentMethod(ctx context.Context, id string) (*stripe.PaymentMethod, error)
	PaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
	Invoice(ctx context.Context, id string) (*stripe.Invoice, error)
	// CheckoutSession retrieves a session with its line items expanded.
	CheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error)

	CreateCustomer(ctx context.Context, email string) (*stripe.Customer, error)
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	CreateBillingPortalSession(ctx context.Context, customerID, returnURL string) (string, error)

	// ActiveSubscriptions lists subscriptions with status active created at or
	// before the given unix timestamp (used for revenue analytics).
	ActiveSubscriptions(ctx context.Context, createdBefore int64) ([]*stripe.Subscription, error)
}
