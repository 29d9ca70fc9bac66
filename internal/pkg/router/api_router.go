package router

import (
	"github.com/startstack/startstack/app/controllers"
	"github.com/startstack/startstack/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	// auth
	auth := v1.Group("/auth")
	auth.Post("/register", controllers.HandleAuthRegister)
	auth.Post("/login", controllers.HandleAuthLogin)
	auth.Post("/logout", controllers.HandleAuthLogout)
	auth.Post("/magic-link", controllers.HandleMagicLinkRequest)
	auth.Get("/magic-link/redeem", controllers.HandleMagicLinkRedeem)
	auth.Get("/me", middleware.RequireAuth, controllers.HandleAuthMe)

	// catalog and checkout are open to guests; the checkout service decides
	// per price whether a signed-in user is required.
	v1.Get("/catalog", controllers.HandleCatalog)
	v1.Get("/catalog/:id", controllers.HandleCatalogProduct)
	v1.Post("/checkout", controllers.HandleCheckoutCreate)
	v1.Get("/checkout/session/:id", controllers.HandleCheckoutGet)

	// account
	account := v1.Group("/account", middleware.RequireAuth)
	account.Get("/", controllers.HandleAccountOverview)
	account.Get("/invoices", controllers.HandleAccountInvoices)
	account.Get("/purchased", controllers.HandleAccountHasPurchased)
	account.Post("/billing-portal", controllers.HandleBillingPortal)

	// admin
	admin := v1.Group("/admin", middleware.RequireAdmin)
	admin.Get("/analytics", controllers.HandleAdminAnalytics)
	admin.Get("/users", controllers.HandleAdminUsers)
	admin.Delete("/users/:id", controllers.HandleAdminUserDelete)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
