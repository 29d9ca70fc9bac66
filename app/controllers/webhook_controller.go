package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/startstack/startstack/internal/pkg/env"
	"github.com/startstack/startstack/internal/pkg/metrics/counter"
	"github.com/startstack/startstack/internal/pkg/payments"
)

var paymentsService *payments.Service

// InitializePaymentsController wires the payments service used by the
// webhook, checkout, account and admin handlers.
func InitializePaymentsController(svc *payments.Service) {
	paymentsService = svc
}

// HandleStripeWebhook verifies and processes incoming Stripe events. A
// processing failure is logged but still acknowledged with 200 so Stripe
// redelivers on its own schedule instead of treating us as down.
func HandleStripeWebhook(c *fiber.Ctx) error {
	signature := c.Get("stripe-signature")
	if signature == "" {
		return c.Status(fiber.StatusBadRequest).SendString("No signature")
	}

	webhookSecret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")
	if webhookSecret == "" {
		return c.Status(fiber.StatusInternalServerError).SendString("No webhook secret")
	}

	// Stripe sends events pinned to the account's API version, which can lag
	// behind the SDK. Signature verification is unaffected.
	event, err := webhook.ConstructEventWithOptions(c.Body(), signature, webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		log.Printf("[stripe][webhook] signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Error")
	}

	log.Printf("[stripe][webhook] received type=%s id=%s", event.Type, event.ID)

	if payments.IsSupportedEvent(event.Type) {
		if err := counter.AddEventReceived(string(event.Type)); err != nil {
			log.Printf("[stripe][webhook] counter: %v", err)
		}
		if err := paymentsService.HandleEvent(c.Context(), event); err != nil {
			log.Printf("[stripe][webhook] processing %s (%s): %v", event.ID, event.Type, err)
			if cerr := counter.AddEventFailed(string(event.Type)); cerr != nil {
				log.Printf("[stripe][webhook] counter: %v", cerr)
			}
		} else {
			log.Printf("[stripe][webhook] processed type=%s id=%s", event.Type, event.ID)
		}
	} else {
		log.Printf("[stripe][webhook] unsupported type=%s", event.Type)
	}

	return c.JSON(fiber.Map{"received": true})
}
