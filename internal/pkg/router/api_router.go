package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/prismify-app/prismify/app/controllers"
	"github.com/prismify-app/prismify/internal/pkg/constants"
	"github.com/prismify-app/prismify/internal/pkg/middleware"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// Public catalog and content
	api.Get("/categories", controllers.HandleCategoryList)
	api.Get("/products", controllers.HandleProductList)
	api.Get("/posts", controllers.HandlePostList)
	api.Get("/posts/:slug", controllers.HandlePostBySlug)

	// Generation routes accept a session or an API key
	ai := api.Group("/ai", middleware.APIKeyAuthMiddleware())
	ai.Post("/text-to-image", controllers.HandleTextToImage)
	ai.Post("/image-to-image", controllers.HandleImageToImage)
	ai.Post("/text-to-video", controllers.HandleTextToVideo)
	ai.Post("/image-to-video", controllers.HandleImageToVideo)
	ai.Post("/remove-background", controllers.HandleRemoveBackground)
	ai.Post("/chat", controllers.HandleChat)

	api.Get("/generations/:uuid/status", middleware.APIKeyAuthMiddleware(), controllers.HandleGenerationStatus)

	// Payment routes: checkout needs a session, the webhook authenticates
	// itself via its signature
	api.Post("/payment/checkout", middleware.RequireAuth, controllers.HandleCreateCheckout)
	api.Post("/payment/notify", controllers.HandlePaymentNotify)
}
