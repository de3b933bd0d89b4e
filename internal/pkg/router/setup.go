package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lunarworks/LanternFox/app/controllers"
	"github.com/lunarworks/LanternFox/internal/pkg/constants"
	"github.com/lunarworks/LanternFox/internal/pkg/middleware"
	"github.com/lunarworks/LanternFox/internal/pkg/session"
)

// InstallRouter initializes the session store, wires controller
// dependencies and registers all API routes.
func InstallRouter(app *fiber.App) {
	session.NewSessionStore()
	controllers.Setup()

	app.Use(middleware.UserContext())

	api := app.Group(constants.APIPrefix)

	api.Get(constants.RoutePing, controllers.HandlePing)
	api.Get(constants.RouteHealth, controllers.HandleHealth)
	api.Get(constants.RouteStyles, controllers.HandleListStyles)

	// The webhook authenticates via provider signature, not a session.
	api.Post(constants.RouteBillingWebhook, controllers.HandleStripeWebhook)

	authed := api.Group("", middleware.RequireAPISessionAuth)
	authed.Get(constants.RouteCreditsBalance, controllers.HandleGetBalance)
	authed.Get(constants.RouteCreditsTransactions, controllers.HandleListTransactions)
	authed.Get(constants.RouteBillingPayments, controllers.HandleListPayments)
	authed.Post(constants.RouteBillingCheckout, controllers.HandleCreateCheckout)
	authed.Post(constants.RouteGenerate, controllers.HandleGenerate)
	authed.Get(constants.RouteImages, controllers.HandleListImages)
	authed.Post(constants.RouteUpload, controllers.HandleUpload)
}
