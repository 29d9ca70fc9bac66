package controllers

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/startstack/startstack/app/repository"
	"github.com/startstack/startstack/internal/pkg/cache"
	"github.com/startstack/startstack/internal/pkg/metrics/counter"
	"github.com/startstack/startstack/internal/pkg/usercontext"
)

const mrrCacheKey = "analytics:mrr"
const mrrCacheTTL = 10 * time.Minute

// parseTimeParam reads a unix-seconds query parameter, falling back to def.
func parseTimeParam(c *fiber.Ctx, name string, def time.Time) time.Time {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return time.Unix(sec, 0)
}

// HandleAdminAnalytics returns revenue and customer metrics for the admin
// dashboard: monthly recurring revenue as of now plus customer counts and the
// newest customers in the requested window (defaults to the last 30 days).
func HandleAdminAnalytics(c *fiber.Ctx) error {
	now := time.Now()
	from := parseTimeParam(c, "from", now.AddDate(0, 0, -30))
	to := parseTimeParam(c, "to", now)

	// MRR walks every active subscription at the gateway, so it is cached
	var mrr int64
	if err := cache.GetJSON(mrrCacheKey, &mrr); err != nil {
		mrr, err = paymentsService.MRR(c.Context(), now)
		if err != nil {
			log.Printf("[admin] mrr calculation: %v", err)
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load analytics")
		}
		if err := cache.SetJSON(mrrCacheKey, mrr, mrrCacheTTL); err != nil {
			log.Printf("[admin] mrr cache write: %v", err)
		}
	}

	customerRepo := repository.GetGlobalFactory().GetCustomerRepository()
	count, err := customerRepo.CountInRange(from, to)
	if err != nil {
		log.Printf("[admin] customer count: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load analytics")
	}

	offset, limit := pageParams(c, 20, 100)
	customers, err := customerRepo.ListInRange(from, to, offset, limit)
	if err != nil {
		log.Printf("[admin] customer list: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load analytics")
	}

	events, err := counter.Snapshot()
	if err != nil {
		log.Printf("[admin] webhook counters: %v", err)
		events = counter.EventCounts{}
	}

	return c.JSON(fiber.Map{
		"mrr":            mrr,
		"customer_count": count,
		"customers":      customers,
		"webhook_events": events,
		"from":           from.Unix(),
		"to":             to.Unix(),
	})
}

// HandleAdminUsers returns one page of accounts, newest first, with the
// overall count.
func HandleAdminUsers(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetUserRepository()

	offset, limit := pageParams(c, 20, 100)
	users, err := repo.List(offset, limit)
	if err != nil {
		log.Printf("[admin] user list: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load users")
	}
	total, err := repo.Count()
	if err != nil {
		log.Printf("[admin] user count: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load users")
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
	})
}

// HandleAdminUserDelete soft-deletes an account. The billing history rows
// keep their user id so reconciliation stays consistent.
func HandleAdminUserDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid user id")
	}
	if uint(id) == usercontext.GetUserID(c) {
		return jsonError(c, fiber.StatusUnprocessableEntity, "unprocessable", "You cannot delete your own account")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := repo.GetByID(uint(id)); err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
	}
	if err := repo.Delete(uint(id)); err != nil {
		log.Printf("[admin] delete user %d: %v", id, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete user")
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
