package router

import (
	"github.com/startstack/startstack/app/controllers"
	"github.com/startstack/startstack/app/repository"
	"github.com/startstack/startstack/internal/pkg/analytics"
	"github.com/startstack/startstack/internal/pkg/constants"
	"github.com/startstack/startstack/internal/pkg/database"
	"github.com/startstack/startstack/internal/pkg/env"
	"github.com/startstack/startstack/internal/pkg/middleware"
	"github.com/startstack/startstack/internal/pkg/notification"
	"github.com/startstack/startstack/internal/pkg/payments"
	"github.com/startstack/startstack/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Wire the repositories and the payments service shared by the webhook,
	// checkout, account and admin controllers.
	db := database.GetDB()
	repository.InitializeFactory(db)
	svc := payments.NewServiceFromDB(db, payments.NewStripeGateway(), payments.Config{
		BaseURL:             env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080"),
		AllowPromotionCodes: env.GetEnv("STRIPE_ALLOW_PROMOTION_CODES", "false") == "true",
		Notifier:            notification.NewNotifier(db),
		Analytics:           analytics.NewClientFromEnv(),
	})
	controllers.InitializePaymentsController(svc)

	// Stripe calls this endpoint directly. It is signature-verified and must
	// stay outside the rate-limited API group.
	app.Post(constants.StripeWebhookRoute, controllers.HandleStripeWebhook)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
