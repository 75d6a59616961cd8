package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"

	"github.com/prismify-app/prismify/app/controllers"
	"github.com/prismify-app/prismify/internal/pkg/constants"
	"github.com/prismify-app/prismify/internal/pkg/middleware"
	"github.com/prismify-app/prismify/internal/pkg/session"
)

type HttpRouter struct {
	deps Deps
}

func NewHttpRouter(deps Deps) *HttpRouter {
	return &HttpRouter{deps: deps}
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Initialize controllers with their injected clients
	controllers.InitializeGenerateController(h.deps.AIClient, h.deps.Uploader, h.deps.Fetcher)
	controllers.InitializePaymentController(h.deps.Checkout, h.deps.Webhook)

	h.registerAuthRoutes(app)
	h.registerUserRoutes(app)
	h.registerAdminRoutes(app)

	app.Get(constants.MetricsRoute, middleware.RequireAdmin, monitor.New(monitor.Config{Title: "Prismify Metrics"}))
}

func (h HttpRouter) registerAuthRoutes(app *fiber.App) {
	app.Post("/register", controllers.HandleRegister)
	app.Post("/login", controllers.HandleLogin)
	app.Post("/logout", controllers.HandleLogout)
}

func (h HttpRouter) registerUserRoutes(app *fiber.App) {
	userGroup := app.Group(constants.UserRoute+"/api", middleware.RequireAuth)
	userGroup.Get("/profile", controllers.HandleUserProfile)
	userGroup.Post("/password", controllers.HandleUserUpdatePassword)
	userGroup.Post("/api-key", controllers.HandleUserGenerateAPIKey)
	userGroup.Get("/orders", controllers.HandleUserOrders)
	userGroup.Get("/generations", controllers.HandleUserGenerations)
}

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group(constants.AdminRoute+"/api", middleware.RequireAdmin)

	adminGroup.Get("/stats", controllers.HandleAdminStats)

	// Category management
	adminGroup.Get("/categories", controllers.HandleAdminCategoryList)
	adminGroup.Post("/categories", controllers.HandleAdminCategoryCreate)
	adminGroup.Put("/categories/:id", controllers.HandleAdminCategoryUpdate)
	adminGroup.Delete("/categories/:id", controllers.HandleAdminCategoryDelete)

	// Post management
	adminGroup.Get("/posts", controllers.HandleAdminPostList)
	adminGroup.Post("/posts", controllers.HandleAdminPostCreate)
	adminGroup.Put("/posts/:id", controllers.HandleAdminPostUpdate)
	adminGroup.Delete("/posts/:id", controllers.HandleAdminPostDelete)

	// Product management
	adminGroup.Get("/products", controllers.HandleAdminProductList)
	adminGroup.Post("/products", controllers.HandleAdminProductCreate)
	adminGroup.Put("/products/:id", controllers.HandleAdminProductUpdate)
	adminGroup.Delete("/products/:id", controllers.HandleAdminProductDelete)

	// Order management
	adminGroup.Get("/orders", controllers.HandleAdminOrderList)
	adminGroup.Get("/orders/:order_no", controllers.HandleAdminOrderDetail)

	// User management
	adminGroup.Get("/users", controllers.HandleAdminUserList)
	adminGroup.Put("/users/:id", controllers.HandleAdminUserUpdate)
	adminGroup.Post("/users/:id/credits", controllers.HandleAdminUserAdjustCredits)
	adminGroup.Delete("/users/:id", controllers.HandleAdminUserDelete)
}
