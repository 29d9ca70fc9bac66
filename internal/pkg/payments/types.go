package payments

import (
	"github.com/startstack/startstack/app/models"
)

// Checkout result statuses returned to controllers.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	// StatusRequiresSession is returned when a subscription checkout is
	// attempted without a signed-in user; the caller redirects to sign-up
	// and retries after authentication.
	StatusRequiresSession = "requiresSession"
)

// CheckoutResult is what the checkout create/get operations hand back to the
// HTTP layer. On failure only a generic error status leaks to the caller.
type CheckoutResult struct {
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret,omitempty"`
}

// Actor identifies the request's user for account-scoped operations. It is
// resolved once at the HTTP boundary and passed explicitly; an unauthenticated
// caller is the zero value.
type Actor struct {
	UserID uint
	Email  string
}

// CompletionRecord is the normalized input for the checkout completion
// transaction. Exactly one of Subscription/PaymentIntent is non-nil, matching
// the session mode. User ids on the nested rows are filled inside the
// transaction once the user row is resolved or created.
type CompletionRecord struct {
	Email            string
	StripeCustomerID string
	Subscription     *models.Subscription
	PaymentIntent    *models.PaymentIntent
	Session          models.CheckoutSession
}

// Notifier covers the post-completion side effects: the magic-link sign-in
// mail for guest purchasers and the newsletter audience add/remove keyed by
// the consent captured at checkout. Implementations must be safe to call from
// a goroutine; failures are logged, never propagated.
type Notifier interface {
	SendMagicLink(email string) error
	SubscribeContact(email string) error
	UnsubscribeContact(email string) error
}

// Analytics is the fire-and-forget event capture collaborator.
type Analytics interface {
	Capture(event string, properties map[string]interface{})
}
