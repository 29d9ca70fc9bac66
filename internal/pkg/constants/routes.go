package constants

// Route constants shared between the router and packages that build
// externally visible URLs.
const (
	StripeWebhookRoute = "/webhooks/stripe"
	// Browser page the embedded checkout returns to after payment
	CheckoutThankYouRoute = "/checkout/thank-you"
	// Browser page that redeems a magic-link token
	MagicLinkRoute = "/auth/magic-link"
)
