package payments

import (
	"errors"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"

	"github.com/prismify-app/prismify/app/models"
	"github.com/prismify-app/prismify/app/repository"
)

type fakeBackend struct {
	session    *stripe.CheckoutSession
	sessionErr error

	subscription  *stripe.Subscription
	paymentIntent *stripe.PaymentIntent
	listSessions  []*stripe.CheckoutSession

	createdParams    []*stripe.CheckoutSessionParams
	updatedSubParams map[string]*stripe.SubscriptionParams
}

func (f *fakeBackend) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.createdParams = append(f.createdParams, params)
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.session, nil
}

func (f *fakeBackend) GetSubscription(id string, _ *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	if f.subscription == nil || f.subscription.ID != id {
		return nil, fmt.Errorf("subscription %s not found", id)
	}
	return f.subscription, nil
}

func (f *fakeBackend) UpdateSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	if f.updatedSubParams == nil {
		f.updatedSubParams = make(map[string]*stripe.SubscriptionParams)
	}
	f.updatedSubParams[id] = params
	return f.subscription, nil
}

func (f *fakeBackend) GetPaymentIntent(id string, _ *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if f.paymentIntent == nil || f.paymentIntent.ID != id {
		return nil, fmt.Errorf("payment intent %s not found", id)
	}
	return f.paymentIntent, nil
}

func (f *fakeBackend) ListCheckoutSessionsBySubscription(_ string) ([]*stripe.CheckoutSession, error) {
	return f.listSessions, nil
}

type fakeOrders struct {
	byOrderNo map[string]*models.Order
	updates   map[string]map[string]interface{}
}

func newFakeOrders(orders ...*models.Order) *fakeOrders {
	f := &fakeOrders{
		byOrderNo: make(map[string]*models.Order),
		updates:   make(map[string]map[string]interface{}),
	}
	for _, o := range orders {
		f.byOrderNo[o.OrderNo] = o
	}
	return f
}

func (f *fakeOrders) Create(order *models.Order) error {
	f.byOrderNo[order.OrderNo] = order
	return nil
}

func (f *fakeOrders) GetByOrderNo(orderNo string) (*models.Order, error) {
	if o, ok := f.byOrderNo[orderNo]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrders) GetBySubID(subID string) (*models.Order, error) {
	for _, o := range f.byOrderNo {
		if o.SubID == subID && subID != "" {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrders) GetByUserID(_ uint, _, _ int) ([]models.Order, error) { return nil, nil }
func (f *fakeOrders) Update(order *models.Order) error {
	f.byOrderNo[order.OrderNo] = order
	return nil
}

func (f *fakeOrders) UpdateFields(orderNo string, fields map[string]interface{}) error {
	if _, ok := f.byOrderNo[orderNo]; !ok {
		return gorm.ErrRecordNotFound
	}
	merged := f.updates[orderNo]
	if merged == nil {
		merged = make(map[string]interface{})
	}
	for k, v := range fields {
		merged[k] = v
	}
	f.updates[orderNo] = merged
	return nil
}

func (f *fakeOrders) List(_, _ int) ([]models.Order, error) { return nil, nil }
func (f *fakeOrders) ListByStatus(_ string, _, _ int) ([]models.Order, error) {
	return nil, nil
}
func (f *fakeOrders) Count() (int64, error) { return int64(len(f.byOrderNo)), nil }

type fakeUsers struct {
	credits map[uint]int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{credits: make(map[uint]int64)}
}

func (f *fakeUsers) Create(_ *models.User) error                       { return nil }
func (f *fakeUsers) GetByID(_ uint) (*models.User, error)              { return nil, gorm.ErrRecordNotFound }
func (f *fakeUsers) GetByEmail(_ string) (*models.User, error)         { return nil, gorm.ErrRecordNotFound }
func (f *fakeUsers) GetByAPIKeyHash(_ string) (*models.User, error)    { return nil, gorm.ErrRecordNotFound }
func (f *fakeUsers) Update(_ *models.User) error                       { return nil }
func (f *fakeUsers) Delete(_ uint) error                               { return nil }
func (f *fakeUsers) List(_, _ int) ([]models.User, error)              { return nil, nil }
func (f *fakeUsers) Count() (int64, error)                             { return 0, nil }
func (f *fakeUsers) Search(_ string) ([]models.User, error)            { return nil, nil }
func (f *fakeUsers) AddCredits(id uint, delta int64) error {
	f.credits[id] += delta
	return nil
}

func (f *fakeUsers) DebitCredits(id uint, amount int64) error {
	if f.credits[id] < amount {
		return errors.New("insufficient credits")
	}
	f.credits[id] -= amount
	return nil
}

type fakeWebhookEvents struct {
	seen      map[string]bool
	processed map[string]string
}

func newFakeWebhookEvents() *fakeWebhookEvents {
	return &fakeWebhookEvents{seen: make(map[string]bool), processed: make(map[string]string)}
}

func (f *fakeWebhookEvents) InsertIfNew(event *models.WebhookEvent) (bool, error) {
	key := event.Provider + ":" + event.ProviderEventID
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

func (f *fakeWebhookEvents) MarkProcessed(provider, providerEventID, processingError string) error {
	f.processed[provider+":"+providerEventID] = processingError
	return nil
}

type fakeProducts struct {
	byProductID map[string]*models.Product
}

func newFakeProducts(products ...*models.Product) *fakeProducts {
	f := &fakeProducts{byProductID: make(map[string]*models.Product)}
	for _, p := range products {
		f.byProductID[p.ProductID] = p
	}
	return f
}

func (f *fakeProducts) Create(p *models.Product) error { f.byProductID[p.ProductID] = p; return nil }
func (f *fakeProducts) GetByID(_ uint) (*models.Product, error) { return nil, gorm.ErrRecordNotFound }
func (f *fakeProducts) GetByProductID(productID string) (*models.Product, error) {
	if p, ok := f.byProductID[productID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeProducts) GetActive() ([]models.Product, error)          { return nil, nil }
func (f *fakeProducts) GetAll(_, _ int) ([]models.Product, error)     { return nil, nil }
func (f *fakeProducts) Update(_ *models.Product) error                { return nil }
func (f *fakeProducts) Delete(_ uint) error                           { return nil }
func (f *fakeProducts) Count() (int64, error)                         { return 0, nil }

type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) SendOrderConfirmation(to, orderNo, _ string, _ int64) error {
	f.sent = append(f.sent, to+":"+orderNo)
	return nil
}

func testRepos(orders *fakeOrders, users *fakeUsers, events *fakeWebhookEvents) *repository.Repositories {
	return &repository.Repositories{
		User:         users,
		Order:        orders,
		WebhookEvent: events,
	}
}
