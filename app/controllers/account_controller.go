package controllers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/startstack/startstack/app/repository"
	"github.com/startstack/startstack/internal/pkg/env"
	"github.com/startstack/startstack/internal/pkg/usercontext"
)

// Invoices shown per dashboard page
const invoicesLimit = 3

// HandleAccountOverview returns the caller's billing data in one response:
// subscriptions with prices, stored payment methods and the first page of
// invoices.
func HandleAccountOverview(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetAccountRepository()

	customerID, err := repo.CustomerID(userCtx.UserID)
	if err != nil {
		log.Printf("[account] customer id for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load account")
	}
	subscriptionID, err := repo.SubscriptionID(userCtx.UserID)
	if err != nil {
		log.Printf("[account] subscription id for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load account")
	}
	subscriptions, err := repo.Subscriptions(userCtx.UserID, 0, 10)
	if err != nil {
		log.Printf("[account] subscriptions for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load account")
	}
	paymentMethods, err := repo.PaymentMethods(userCtx.UserID, 0, 10)
	if err != nil {
		log.Printf("[account] payment methods for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load account")
	}
	invoices, err := repo.Invoices(userCtx.UserID, 0, invoicesLimit)
	if err != nil {
		log.Printf("[account] invoices for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load account")
	}
	invoicesTotal, err := repo.InvoicesTotal(userCtx.UserID)
	if err != nil {
		log.Printf("[account] invoice count for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load account")
	}

	return c.JSON(fiber.Map{
		"customer_id":     customerID,
		"subscription_id": subscriptionID,
		"subscriptions":   subscriptions,
		"payment_methods": paymentMethods,
		"invoices":        invoices,
		"invoices_total":  invoicesTotal,
	})
}

// HandleAccountInvoices returns one page of the caller's invoices.
func HandleAccountInvoices(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetAccountRepository()

	offset, limit := pageParams(c, invoicesLimit, 50)
	invoices, err := repo.Invoices(userCtx.UserID, offset, limit)
	if err != nil {
		log.Printf("[account] invoices for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load invoices")
	}
	total, err := repo.InvoicesTotal(userCtx.UserID)
	if err != nil {
		log.Printf("[account] invoice count for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load invoices")
	}

	return c.JSON(fiber.Map{
		"invoices": invoices,
		"total":    total,
	})
}

// HandleAccountHasPurchased reports whether the caller has bought any of the
// given products (comma-separated ids). Used to gate paid content.
func HandleAccountHasPurchased(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	raw := c.Query("products")
	if raw == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "products is required")
	}
	var productIDs []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			productIDs = append(productIDs, id)
		}
	}

	purchased, err := repository.GetGlobalFactory().GetAccountRepository().HasPurchasedProduct(userCtx.UserID, productIDs)
	if err != nil {
		log.Printf("[account] purchase check for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check purchases")
	}

	return c.JSON(fiber.Map{"has_purchased": purchased})
}

// HandleBillingPortal creates a billing portal session for the caller and
// returns the URL to redirect to.
func HandleBillingPortal(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	returnURL := c.Query("return_url")
	if returnURL == "" {
		returnURL = env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080") + "/account"
	}

	url, err := paymentsService.BillingPortalURL(c.Context(), userID, returnURL)
	if err != nil {
		log.Printf("[account] billing portal for user %d: %v", userID, err)
		return jsonError(c, fiber.StatusUnprocessableEntity, "unprocessable", "No billing profile for this account")
	}

	return c.JSON(fiber.Map{"url": url})
}
