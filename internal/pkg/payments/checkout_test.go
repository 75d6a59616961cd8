package payments

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"

	"github.com/prismify-app/prismify/app/models"
)

func testPricing() *Pricing {
	return NewPricing(map[string]map[string]Price{
		"en": {
			"pack-500": {Amount: 499, Currency: "usd"},
			"pro-plan": {Amount: 1999, Currency: "usd"},
		},
		"zh": {
			"pack-500": {Amount: 3500, Currency: "cny"},
		},
	})
}

func testUser() *models.User {
	return &models.User{ID: 42, Email: "buyer@example.com"}
}

func newCheckoutFixture(backend *fakeBackend, products ...*models.Product) (*CheckoutService, *fakeOrders) {
	orders := newFakeOrders()
	svc := NewCheckoutService(backend, newFakeProducts(products...), orders, testPricing(),
		"https://prismify.app/pay/success", "https://prismify.app/pay/cancel")
	return svc, orders
}

func TestCreateSessionOneTime(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{session: &stripe.CheckoutSession{ID: "cs_new", URL: "https://checkout.stripe.com/c/cs_new"}}
	svc, orders := newCheckoutFixture(backend, &models.Product{
		ProductID: "pack-500",
		Name:      "Starter Pack",
		Status:    models.ProductStatusActive,
		Interval:  models.IntervalOneTime,
		Credits:   500,
	})

	result, err := svc.CreateSession(testUser(), CheckoutRequest{ProductID: "pack-500"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.OrderNo)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_new", result.CheckoutURL)

	order := orders.byOrderNo[result.OrderNo]
	require.NotNil(t, order)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, int64(499), order.Amount)
	assert.Equal(t, "usd", order.Currency)
	assert.Equal(t, int64(500), order.Credits)

	require.Len(t, backend.createdParams, 1)
	params := backend.createdParams[0]
	assert.Equal(t, string(stripe.CheckoutSessionModePayment), *params.Mode)

	var methods []string
	for _, m := range params.PaymentMethodTypes {
		methods = append(methods, *m)
	}
	assert.Equal(t, []string{"card"}, methods)
}

func TestCreateSessionCNPayMethod(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{session: &stripe.CheckoutSession{ID: "cs_cn", URL: "https://checkout.stripe.com/c/cs_cn"}}
	svc, orders := newCheckoutFixture(backend, &models.Product{
		ProductID: "pack-500",
		Name:      "Starter Pack",
		Status:    models.ProductStatusActive,
		Interval:  models.IntervalOneTime,
		Credits:   500,
	})

	result, err := svc.CreateSession(testUser(), CheckoutRequest{ProductID: "pack-500", PayMethod: PayMethodCN})
	require.NoError(t, err)

	order := orders.byOrderNo[result.OrderNo]
	require.NotNil(t, order)
	assert.Equal(t, "cny", order.Currency)
	assert.Equal(t, int64(3500), order.Amount)

	require.Len(t, backend.createdParams, 1)
	params := backend.createdParams[0]
	var methods []string
	for _, m := range params.PaymentMethodTypes {
		methods = append(methods, *m)
	}
	assert.Equal(t, []string{"alipay", "wechat_pay", "card"}, methods)
	require.NotNil(t, params.PaymentMethodOptions)
	require.NotNil(t, params.PaymentMethodOptions.WeChatPay)
}

func TestCreateSessionSubscriptionForcesCard(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{session: &stripe.CheckoutSession{ID: "cs_sub", URL: "https://checkout.stripe.com/c/cs_sub"}}
	svc, orders := newCheckoutFixture(backend, &models.Product{
		ProductID: "pro-plan",
		Name:      "Pro Plan",
		Status:    models.ProductStatusActive,
		Interval:  models.IntervalMonth,
		Credits:   2000,
	})

	result, err := svc.CreateSession(testUser(), CheckoutRequest{ProductID: "pro-plan", PayMethod: PayMethodCN})
	require.NoError(t, err)

	order := orders.byOrderNo[result.OrderNo]
	require.NotNil(t, order)
	assert.Equal(t, "usd", order.Currency, "subscriptions always bill in the base currency")

	require.Len(t, backend.createdParams, 1)
	params := backend.createdParams[0]
	assert.Equal(t, string(stripe.CheckoutSessionModeSubscription), *params.Mode)

	var methods []string
	for _, m := range params.PaymentMethodTypes {
		methods = append(methods, *m)
	}
	assert.Equal(t, []string{"card"}, methods)
	require.NotNil(t, params.SubscriptionData)
	assert.Equal(t, result.OrderNo, params.SubscriptionData.Metadata["order_no"])
	require.NotNil(t, params.LineItems[0].PriceData.Recurring)
	assert.Equal(t, "month", *params.LineItems[0].PriceData.Recurring.Interval)
}

func TestCreateSessionInactiveProduct(t *testing.T) {
	t.Parallel()

	svc, orders := newCheckoutFixture(&fakeBackend{}, &models.Product{
		ProductID: "pack-500",
		Status:    models.ProductStatusDraft,
	})

	_, err := svc.CreateSession(testUser(), CheckoutRequest{ProductID: "pack-500"})
	assert.ErrorContains(t, err, "not available")
	assert.Empty(t, orders.byOrderNo)
}

func TestCreateSessionUnknownProduct(t *testing.T) {
	t.Parallel()

	svc, orders := newCheckoutFixture(&fakeBackend{})
	_, err := svc.CreateSession(testUser(), CheckoutRequest{ProductID: "nope"})
	assert.ErrorContains(t, err, "not found")
	assert.Empty(t, orders.byOrderNo)
}

func TestCreateSessionMetadataCarriesOrderContext(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{session: &stripe.CheckoutSession{ID: "cs_ctx", URL: "https://checkout.stripe.com/c/cs_ctx"}}
	svc, _ := newCheckoutFixture(backend, &models.Product{
		ProductID:   "pack-500",
		Name:        "Starter Pack",
		Status:      models.ProductStatusActive,
		Interval:    models.IntervalOneTime,
		Credits:     500,
		ValidMonths: 12,
	})

	result, err := svc.CreateSession(testUser(), CheckoutRequest{ProductID: "pack-500", PayMethod: PayMethodCN})
	require.NoError(t, err)

	require.Len(t, backend.createdParams, 1)
	md := backend.createdParams[0].Metadata
	assert.Equal(t, result.OrderNo, md["order_no"])
	assert.Equal(t, "42", md["user_id"])
	assert.Equal(t, "buyer@example.com", md["user_email"])
	assert.Equal(t, "pack-500", md["product_id"])
	assert.Equal(t, "500", md["credits"])
	assert.Equal(t, "12", md["valid_months"])
	assert.Equal(t, "cn", md["pay_method"])
	assert.Equal(t, "zh", md["locale"])
}

func TestCreateSessionMetadataDefaultsPayMethod(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{session: &stripe.CheckoutSession{ID: "cs_def", URL: "https://checkout.stripe.com/c/cs_def"}}
	svc, _ := newCheckoutFixture(backend, &models.Product{
		ProductID: "pack-500",
		Name:      "Starter Pack",
		Status:    models.ProductStatusActive,
		Interval:  models.IntervalOneTime,
		Credits:   500,
	})

	_, err := svc.CreateSession(testUser(), CheckoutRequest{ProductID: "pack-500"})
	require.NoError(t, err)

	md := backend.createdParams[0].Metadata
	assert.Equal(t, "card", md["pay_method"])
	assert.Equal(t, "en", md["locale"])
}

func TestCreateSessionErrorClassification(t *testing.T) {
	t.Parallel()

	activeProduct := func(id string) *models.Product {
		return &models.Product{
			ProductID: id,
			Name:      "Pack",
			Status:    models.ProductStatusActive,
			Interval:  models.IntervalOneTime,
			Credits:   500,
		}
	}

	t.Run("unknown product is a request error", func(t *testing.T) {
		t.Parallel()
		svc, _ := newCheckoutFixture(&fakeBackend{})
		_, err := svc.CreateSession(testUser(), CheckoutRequest{ProductID: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCheckout)
	})

	t.Run("inactive product is a request error", func(t *testing.T) {
		t.Parallel()
		svc, _ := newCheckoutFixture(&fakeBackend{}, &models.Product{ProductID: "pack-500", Status: models.ProductStatusDraft})
		_, err := svc.CreateSession(testUser(), CheckoutRequest{ProductID: "pack-500"})
		assert.ErrorIs(t, err, ErrInvalidCheckout)
	})

	t.Run("unpriced product is a request error", func(t *testing.T) {
		t.Parallel()
		svc, _ := newCheckoutFixture(&fakeBackend{}, activeProduct("unpriced"))
		_, err := svc.CreateSession(testUser(), CheckoutRequest{ProductID: "unpriced"})
		assert.ErrorIs(t, err, ErrInvalidCheckout)
	})

	t.Run("provider failure is not a request error", func(t *testing.T) {
		t.Parallel()
		svc, _ := newCheckoutFixture(&fakeBackend{sessionErr: errors.New("stripe unavailable")}, activeProduct("pack-500"))
		_, err := svc.CreateSession(testUser(), CheckoutRequest{ProductID: "pack-500"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCheckout)
	})
}

func TestCreateSessionProviderFailureMarksOrderFailed(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{sessionErr: errors.New("stripe unavailable")}
	svc, orders := newCheckoutFixture(backend, &models.Product{
		ProductID: "pack-500",
		Name:      "Starter Pack",
		Status:    models.ProductStatusActive,
		Interval:  models.IntervalOneTime,
		Credits:   500,
	})

	_, err := svc.CreateSession(testUser(), CheckoutRequest{ProductID: "pack-500"})
	require.Error(t, err)

	require.Len(t, orders.byOrderNo, 1)
	for orderNo := range orders.byOrderNo {
		fields := orders.updates[orderNo]
		require.NotNil(t, fields, "the pending order must be marked failed")
		assert.Equal(t, models.OrderStatusFailed, fields["status"])
	}
}

func TestCreateSessionMirrorsMetadataOntoPaymentIntent(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{session: &stripe.CheckoutSession{ID: "cs_meta", URL: "https://checkout.stripe.com/c/cs_meta"}}
	svc, _ := newCheckoutFixture(backend, &models.Product{
		ProductID: "pack-500",
		Name:      "Starter Pack",
		Status:    models.ProductStatusActive,
		Interval:  models.IntervalOneTime,
		Credits:   500,
	})

	result, err := svc.CreateSession(testUser(), CheckoutRequest{ProductID: "pack-500"})
	require.NoError(t, err)

	params := backend.createdParams[0]
	require.NotNil(t, params.PaymentIntentData)
	assert.Equal(t, result.OrderNo, params.PaymentIntentData.Metadata["order_no"])
	assert.Equal(t, "42", params.PaymentIntentData.Metadata["user_id"])
	assert.Equal(t, "500", params.PaymentIntentData.Metadata["credits"])
}
