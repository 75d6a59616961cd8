package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prismify-app/prismify/internal/pkg/aisdk"
	"github.com/prismify-app/prismify/internal/pkg/payments"
	"github.com/prismify-app/prismify/internal/pkg/storage"
)

// Router installs a slice of the route surface on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// Deps carries the externally constructed clients the controllers need.
// Everything here is built in main so tests can substitute fakes.
type Deps struct {
	AIClient aisdk.Client
	Uploader storage.Uploader
	Fetcher  aisdk.Fetcher
	Checkout *payments.CheckoutService
	Webhook  *payments.WebhookService
}

// InstallRouter wires the HTTP surface. The HttpRouter goes first because it
// initializes the session store and the global user context middleware the
// API routes depend on.
func InstallRouter(app *fiber.App, deps Deps) {
	setup(app, NewHttpRouter(deps), NewApiRouter())
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
