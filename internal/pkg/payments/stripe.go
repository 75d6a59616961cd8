package payments

import (
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripeBackend is the slice of the Stripe API the payment services call.
// It exists so the checkout and webhook flows can be exercised against a
// fake in tests.
type StripeBackend interface {
	NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error)
	UpdateSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error)
	GetPaymentIntent(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	ListCheckoutSessionsBySubscription(subID string) ([]*stripe.CheckoutSession, error)
}

// APIBackend implements StripeBackend over the official client.
type APIBackend struct {
	api *client.API
}

// NewAPIBackend builds a backend from a secret key.
func NewAPIBackend(secretKey string) *APIBackend {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &APIBackend{api: api}
}

func (b *APIBackend) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return b.api.CheckoutSessions.New(params)
}

func (b *APIBackend) GetSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	return b.api.Subscriptions.Get(id, params)
}

func (b *APIBackend) UpdateSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	return b.api.Subscriptions.Update(id, params)
}

func (b *APIBackend) GetPaymentIntent(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return b.api.PaymentIntents.Get(id, params)
}

func (b *APIBackend) ListCheckoutSessionsBySubscription(subID string) ([]*stripe.CheckoutSession, error) {
	iter := b.api.CheckoutSessions.List(&stripe.CheckoutSessionListParams{
		Subscription: stripe.String(subID),
	})

	var sessions []*stripe.CheckoutSession
	for iter.Next() {
		sessions = append(sessions, iter.CheckoutSession())
	}
	return sessions, iter.Err()
}
