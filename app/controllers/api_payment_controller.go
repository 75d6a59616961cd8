package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/prismify-app/prismify/app/repository"
	"github.com/prismify-app/prismify/internal/pkg/payments"
	"github.com/prismify-app/prismify/internal/pkg/usercontext"
)

// PaymentController owns the checkout and webhook services.
type PaymentController struct {
	checkout *payments.CheckoutService
	webhook  *payments.WebhookService
}

var paymentController *PaymentController

// InitializePaymentController wires the payment endpoints.
func InitializePaymentController(checkout *payments.CheckoutService, webhook *payments.WebhookService) {
	paymentController = &PaymentController{
		checkout: checkout,
		webhook:  webhook,
	}
}

// HandleCreateCheckout creates a pending order and returns the hosted
// checkout URL for it.
func HandleCreateCheckout(c *fiber.Ctx) error {
	var req payments.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	userCtx := usercontext.GetUserContext(c)
	user, err := repository.GetGlobalRepositories().User.GetByID(userCtx.UserID)
	if err != nil {
		return internalError(c, "Failed to load account")
	}

	result, err := paymentController.checkout.CreateSession(user, req)
	if err != nil {
		log.Errorf("[Payment] Checkout failed for user %d: %v", userCtx.UserID, err)
		if errors.Is(err, payments.ErrInvalidCheckout) {
			return badRequest(c, err.Error())
		}
		return internalError(c, "Failed to create checkout session")
	}

	return c.JSON(result)
}

// HandlePaymentNotify receives provider webhook deliveries. The provider
// retries on non-2xx, so processing errors intentionally propagate as 400.
func HandlePaymentNotify(c *fiber.Ctx) error {
	sigHeader := c.Get("Stripe-Signature")
	if err := paymentController.webhook.VerifyAndHandle(c.Body(), sigHeader); err != nil {
		log.Errorf("[Payment] Webhook processing failed: %v", err)
		return badRequest(c, "webhook processing failed")
	}
	return c.JSON(fiber.Map{"received": true})
}
