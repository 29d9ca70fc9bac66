package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v81"

	"github.com/startstack/startstack/internal/pkg/payments"
	"github.com/startstack/startstack/internal/pkg/usercontext"
)

type checkoutRequest struct {
	PriceID string `json:"price_id" validate:"required"`
}

// HandleCheckoutCreate starts an embedded checkout for a price. Guests may
// buy one-time products; subscription checkouts signal requiresSession and
// the client redirects to sign-in first.
func HandleCheckoutCreate(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil || req.PriceID == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "price_id is required")
	}

	userCtx := usercontext.GetUserContext(c)
	actor := payments.Actor{
		UserID: userCtx.UserID,
		Email:  userCtx.Email,
	}

	result := paymentsService.CreateCheckoutSession(c.Context(), actor, req.PriceID)
	status := fiber.StatusOK
	if result.Status == payments.StatusError {
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(result)
}

// HandleCheckoutGet returns the session state for the thank-you page.
func HandleCheckoutGet(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "session id is required")
	}

	data, err := paymentsService.GetCheckoutSession(c.Context(), sessionID)
	if err != nil {
		log.Printf("[checkout][get] session %s: %v", sessionID, err)
		return jsonError(c, fiber.StatusNotFound, "not_found", "Checkout session not found")
	}

	return c.JSON(fiber.Map{
		"id":             data.ID,
		"status":         data.Status,
		"payment_status": data.PaymentStatus,
		"customer_email": customerEmail(data.CustomerDetails),
	})
}

func customerEmail(details *stripe.CheckoutSessionCustomerDetails) string {
	if details == nil {
		return ""
	}
	return details.Email
}
