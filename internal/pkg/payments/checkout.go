package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v82"

	"github.com/prismify-app/prismify/app/models"
	"github.com/prismify-app/prismify/app/repository"
)

// PayMethodCN selects the China payment rail (Alipay and WeChat Pay) for
// one-time purchases. Subscriptions always bill by card.
const PayMethodCN = "cn"

// ErrInvalidCheckout marks session-creation failures caused by the request
// itself: an unknown or inactive product, or a product with no price in the
// selected locale. Provider and database failures are returned without it.
var ErrInvalidCheckout = errors.New("invalid checkout request")

// CheckoutRequest is the validated input for session creation.
type CheckoutRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	PayMethod string `json:"pay_method" validate:"omitempty,oneof=card cn"`
}

// CheckoutResult carries the redirect URL for a freshly created session.
type CheckoutResult struct {
	OrderNo     string `json:"order_no"`
	CheckoutURL string `json:"checkout_url"`
}

// CheckoutService turns a product selection into a pending order plus a
// hosted checkout session.
type CheckoutService struct {
	backend    StripeBackend
	products   repository.ProductRepository
	orders     repository.OrderRepository
	pricing    *Pricing
	successURL string
	cancelURL  string
}

// NewCheckoutService wires the checkout flow.
func NewCheckoutService(backend StripeBackend, products repository.ProductRepository, orders repository.OrderRepository, pricing *Pricing, successURL, cancelURL string) *CheckoutService {
	return &CheckoutService{
		backend:    backend,
		products:   products,
		orders:     orders,
		pricing:    pricing,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// CreateSession creates a pending order and the matching checkout session.
// The order number is minted locally and travels to the provider inside the
// session metadata, which is how webhooks find their way back to the row.
// If session creation fails after the order row exists, the order is marked
// failed so it never lingers as a phantom pending purchase.
func (s *CheckoutService) CreateSession(user *models.User, req CheckoutRequest) (*CheckoutResult, error) {
	product, err := s.products.GetByProductID(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: product %s not found", ErrInvalidCheckout, req.ProductID)
	}
	if product.Status != models.ProductStatusActive {
		return nil, fmt.Errorf("%w: product %s is not available for purchase", ErrInvalidCheckout, req.ProductID)
	}

	payMethod := req.PayMethod
	if payMethod == "" {
		payMethod = "card"
	}

	locale := "en"
	if payMethod == PayMethodCN && !product.IsRecurring() {
		locale = "zh"
	}
	price, err := s.pricing.Resolve(product.ProductID, locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCheckout, err)
	}

	orderNo := uuid.New().String()

	detail, _ := json.Marshal(map[string]interface{}{
		"product_id": product.ProductID,
		"pay_method": payMethod,
		"locale":     locale,
		"amount":     price.Amount,
		"currency":   price.Currency,
		"interval":   product.Interval,
	})

	order := &models.Order{
		OrderNo:     orderNo,
		UserID:      user.ID,
		UserEmail:   user.Email,
		Amount:      price.Amount,
		Currency:    price.Currency,
		Interval:    product.Interval,
		Status:      models.OrderStatusPending,
		Credits:     product.Credits,
		ProductID:   product.ProductID,
		ProductName: product.Name,
		ValidMonths: product.ValidMonths,
		OrderDetail: string(detail),
	}
	if err := s.orders.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	params := s.buildSessionParams(user, product, price, payMethod, locale, orderNo)

	sess, err := s.backend.NewCheckoutSession(params)
	if err != nil {
		if updErr := s.orders.UpdateFields(orderNo, map[string]interface{}{
			"status": models.OrderStatusFailed,
		}); updErr != nil {
			log.Errorf("[Checkout] Failed to mark order %s as failed: %v", orderNo, updErr)
		}
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	if err := s.orders.UpdateFields(orderNo, map[string]interface{}{
		"stripe_session_id": sess.ID,
	}); err != nil {
		log.Errorf("[Checkout] Failed to store session id for order %s: %v", orderNo, err)
	}

	log.Infof("[Checkout] Created session %s for order %s (user %d, product %s)", sess.ID, orderNo, user.ID, product.ProductID)
	return &CheckoutResult{OrderNo: orderNo, CheckoutURL: sess.URL}, nil
}

func (s *CheckoutService) buildSessionParams(user *models.User, product *models.Product, price Price, payMethod, locale, orderNo string) *stripe.CheckoutSessionParams {
	// The bag must let the webhook reconstruct the full purchase context
	// without a second lookup.
	metadata := map[string]string{
		"order_no":     orderNo,
		"user_id":      fmt.Sprintf("%d", user.ID),
		"user_email":   user.Email,
		"product_id":   product.ProductID,
		"credits":      fmt.Sprintf("%d", product.Credits),
		"valid_months": fmt.Sprintf("%d", product.ValidMonths),
		"pay_method":   payMethod,
		"locale":       locale,
	}

	lineItem := &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(price.Currency),
			UnitAmount: stripe.Int64(price.Amount),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(product.Name),
			},
		},
		Quantity: stripe.Int64(1),
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL:        stripe.String(s.successURL + "?order_no=" + orderNo),
		CancelURL:         stripe.String(s.cancelURL),
		CustomerEmail:     stripe.String(user.Email),
		ClientReferenceID: stripe.String(orderNo),
		LineItems:         []*stripe.CheckoutSessionLineItemParams{lineItem},
		ExpiresAt:         stripe.Int64(time.Now().Add(30 * time.Minute).Unix()),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	if product.IsRecurring() {
		lineItem.PriceData.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
			Interval: stripe.String(product.Interval),
		}
		params.Mode = stripe.String(string(stripe.CheckoutSessionModeSubscription))
		params.PaymentMethodTypes = stripe.StringSlice([]string{"card"})
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		}
		return params
	}

	params.Mode = stripe.String(string(stripe.CheckoutSessionModePayment))
	if payMethod == PayMethodCN {
		params.PaymentMethodTypes = stripe.StringSlice([]string{"alipay", "wechat_pay", "card"})
		params.PaymentMethodOptions = &stripe.CheckoutSessionPaymentMethodOptionsParams{
			WeChatPay: &stripe.CheckoutSessionPaymentMethodOptionsWeChatPayParams{
				Client: stripe.String("web"),
			},
		}
	} else {
		params.PaymentMethodTypes = stripe.StringSlice([]string{"card"})
	}
	// Mirror the metadata onto the payment intent so the paid object carries
	// the order reference as well.
	params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
		Metadata: metadata,
	}
	return params
}
