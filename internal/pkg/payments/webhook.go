package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gofiber/fiber/v2/log"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/prismify-app/prismify/app/models"
	"github.com/prismify-app/prismify/app/repository"
	"github.com/prismify-app/prismify/internal/pkg/mail"
)

const providerStripe = "stripe"

// WebhookService reconciles provider webhook events onto order rows and
// credits the buying account. Every event is recorded before processing so
// duplicate deliveries become no-ops.
type WebhookService struct {
	backend       StripeBackend
	repos         *repository.Repositories
	mailer        mail.Sender
	signingSecret string
}

// NewWebhookService wires the webhook reconciliation flow.
func NewWebhookService(backend StripeBackend, repos *repository.Repositories, mailer mail.Sender, signingSecret string) *WebhookService {
	return &WebhookService{
		backend:       backend,
		repos:         repos,
		mailer:        mailer,
		signingSecret: signingSecret,
	}
}

// VerifyAndHandle checks the event signature and processes the event.
func (s *WebhookService) VerifyAndHandle(payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.signingSecret)
	if err != nil {
		return fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return s.HandleEvent(event)
}

// HandleEvent records and dispatches a verified event. Events already seen
// are skipped; the processing outcome is written back onto the event row.
func (s *WebhookService) HandleEvent(event stripe.Event) error {
	isNew, err := s.repos.WebhookEvent.InsertIfNew(&models.WebhookEvent{
		Provider:        providerStripe,
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
		PayloadJSON:     string(event.Data.Raw),
		SignatureValid:  true,
	})
	if err != nil {
		return fmt.Errorf("failed to record webhook event %s: %w", event.ID, err)
	}
	if !isNew {
		log.Infof("[Webhook] Skipping duplicate event %s (%s)", event.ID, event.Type)
		return nil
	}

	var procErr error
	switch event.Type {
	case "checkout.session.completed":
		procErr = s.handleCheckoutCompleted(event)
	case "invoice.paid", "invoice.payment_succeeded":
		procErr = s.handleInvoicePaid(event)
	default:
		log.Debugf("[Webhook] Ignoring event %s (%s)", event.ID, event.Type)
	}

	errMsg := ""
	if procErr != nil {
		errMsg = procErr.Error()
	}
	if markErr := s.repos.WebhookEvent.MarkProcessed(providerStripe, event.ID, errMsg); markErr != nil {
		log.Errorf("[Webhook] Failed to mark event %s processed: %v", event.ID, markErr)
	}
	return procErr
}

// handleCheckoutCompleted settles the initial purchase: it flips the pending
// order to paid, credits the account and, for subscriptions, captures the
// billing anchor and first period bounds.
func (s *WebhookService) handleCheckoutCompleted(event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	orderNo := sess.Metadata["order_no"]
	if orderNo == "" {
		return errors.New("checkout session carries no order_no metadata")
	}

	order, err := s.repos.Order.GetByOrderNo(orderNo)
	if err != nil {
		return fmt.Errorf("order %s not found: %w", orderNo, err)
	}
	if order.Status == models.OrderStatusPaid {
		log.Infof("[Webhook] Order %s already paid, skipping", orderNo)
		return nil
	}

	eligible, err := s.paymentEligible(&sess)
	if err != nil {
		return err
	}
	if !eligible {
		return fmt.Errorf("checkout session %s is not paid (status %s)", sess.ID, sess.PaymentStatus)
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":            models.OrderStatusPaid,
		"paid_at":           &now,
		"paid_email":        paidEmail(&sess, order),
		"paid_detail":       string(event.Data.Raw),
		"stripe_session_id": sess.ID,
	}

	if sess.Subscription != nil && sess.Subscription.ID != "" {
		sub, err := s.backend.GetSubscription(sess.Subscription.ID, nil)
		if err != nil {
			return fmt.Errorf("failed to fetch subscription %s: %w", sess.Subscription.ID, err)
		}

		// Tag the subscription so later invoices can be traced back even if
		// the session metadata is lost.
		upd := &stripe.SubscriptionParams{}
		upd.AddMetadata("order_no", orderNo)
		if _, err := s.backend.UpdateSubscription(sub.ID, upd); err != nil {
			log.Errorf("[Webhook] Failed to tag subscription %s with order %s: %v", sub.ID, orderNo, err)
		}

		fields["sub_id"] = sub.ID
		fields["sub_cycle_anchor"] = sub.BillingCycleAnchor
		fields["sub_times"] = int64(1)
		if len(sub.Items.Data) > 0 {
			item := sub.Items.Data[0]
			fields["sub_period_start"] = item.CurrentPeriodStart
			fields["sub_period_end"] = item.CurrentPeriodEnd
			if item.Price != nil && item.Price.Recurring != nil {
				fields["sub_interval_count"] = item.Price.Recurring.IntervalCount
			}
		}
	}

	if err := s.repos.Order.UpdateFields(orderNo, fields); err != nil {
		return fmt.Errorf("failed to settle order %s: %w", orderNo, err)
	}
	if err := s.repos.User.AddCredits(order.UserID, order.Credits); err != nil {
		return fmt.Errorf("failed to credit user %d for order %s: %w", order.UserID, orderNo, err)
	}

	log.Infof("[Webhook] Order %s settled, %d credits added to user %d", orderNo, order.Credits, order.UserID)
	s.sendConfirmation(order)
	return nil
}

// handleInvoicePaid credits renewal cycles of a subscription. The first
// invoice of a subscription is skipped because checkout.session.completed
// already settled it.
func (s *WebhookService) handleInvoicePaid(event stripe.Event) error {
	var inv invoicePayload
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return fmt.Errorf("failed to parse invoice: %w", err)
	}

	if inv.BillingReason == "subscription_create" {
		log.Debugf("[Webhook] Invoice %s is the initial subscription invoice, skipping", inv.ID)
		return nil
	}

	subID := inv.subscriptionID()
	if subID == "" {
		return fmt.Errorf("invoice %s carries no subscription reference", inv.ID)
	}

	order, err := s.findSubscriptionOrder(subID)
	if err != nil {
		return err
	}

	if len(inv.Lines.Data) == 0 {
		return fmt.Errorf("invoice %s has no line items", inv.ID)
	}
	period := inv.Lines.Data[0].Period
	if period.Start <= order.SubPeriodStart {
		log.Infof("[Webhook] Invoice %s period already credited on order %s, skipping", inv.ID, order.OrderNo)
		return nil
	}

	subTimes := renewalCount(order.SubCycleAnchor, period.Start, period.End)

	now := time.Now()
	fields := map[string]interface{}{
		"status":           models.OrderStatusPaid,
		"paid_at":          &now,
		"paid_detail":      string(event.Data.Raw),
		"sub_id":           subID,
		"sub_period_start": period.Start,
		"sub_period_end":   period.End,
		"sub_times":        subTimes,
	}
	if err := s.repos.Order.UpdateFields(order.OrderNo, fields); err != nil {
		return fmt.Errorf("failed to record renewal on order %s: %w", order.OrderNo, err)
	}
	if err := s.repos.User.AddCredits(order.UserID, order.Credits); err != nil {
		return fmt.Errorf("failed to credit user %d for renewal of order %s: %w", order.UserID, order.OrderNo, err)
	}

	log.Infof("[Webhook] Renewal %d of order %s credited %d to user %d", subTimes, order.OrderNo, order.Credits, order.UserID)
	s.sendConfirmation(order)
	return nil
}

// findSubscriptionOrder resolves the order behind a subscription id, falling
// back to the provider's session listing when the local cross-reference is
// missing.
func (s *WebhookService) findSubscriptionOrder(subID string) (*models.Order, error) {
	order, err := s.repos.Order.GetBySubID(subID)
	if err == nil {
		return order, nil
	}

	sessions, listErr := s.backend.ListCheckoutSessionsBySubscription(subID)
	if listErr != nil {
		return nil, fmt.Errorf("no order for subscription %s and session listing failed: %w", subID, listErr)
	}
	for _, sess := range sessions {
		if orderNo := sess.Metadata["order_no"]; orderNo != "" {
			if order, err := s.repos.Order.GetByOrderNo(orderNo); err == nil {
				// Tag the subscription with the recovered order number so
				// the next invoice resolves without another listing call.
				upd := &stripe.SubscriptionParams{}
				upd.AddMetadata("order_no", orderNo)
				if _, tagErr := s.backend.UpdateSubscription(subID, upd); tagErr != nil {
					log.Errorf("[Webhook] Failed to tag subscription %s with order %s: %v", subID, orderNo, tagErr)
				}
				return order, nil
			}
		}
	}
	return nil, fmt.Errorf("no order found for subscription %s", subID)
}

// paymentEligible reports whether a completed session actually collected
// payment. Zero-amount sessions and no_payment_required pass immediately;
// otherwise the payment intent is consulted.
func (s *WebhookService) paymentEligible(sess *stripe.CheckoutSession) (bool, error) {
	switch sess.PaymentStatus {
	case stripe.CheckoutSessionPaymentStatusPaid, stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return true, nil
	}
	if sess.AmountTotal == 0 {
		return true, nil
	}
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		pi, err := s.backend.GetPaymentIntent(sess.PaymentIntent.ID, nil)
		if err != nil {
			return false, fmt.Errorf("failed to fetch payment intent %s: %w", sess.PaymentIntent.ID, err)
		}
		return pi.Status == stripe.PaymentIntentStatusSucceeded, nil
	}
	return false, nil
}

func (s *WebhookService) sendConfirmation(order *models.Order) {
	to := order.PaidEmail
	if to == "" {
		to = order.UserEmail
	}
	if to == "" {
		return
	}
	if err := s.mailer.SendOrderConfirmation(to, order.OrderNo, order.ProductName, order.Credits); err != nil {
		log.Errorf("[Webhook] Failed to send confirmation for order %s: %v", order.OrderNo, err)
	}
}

// renewalCount derives which billing cycle an invoice belongs to from the
// distance between the cycle anchor and the invoiced period.
func renewalCount(cycleAnchor, periodStart, periodEnd int64) int64 {
	duration := periodEnd - periodStart
	if duration <= 0 || cycleAnchor <= 0 {
		return 1
	}
	return int64(math.Round(float64(periodStart-cycleAnchor)/float64(duration))) + 1
}

func paidEmail(sess *stripe.CheckoutSession, order *models.Order) string {
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		return sess.CustomerDetails.Email
	}
	if sess.CustomerEmail != "" {
		return sess.CustomerEmail
	}
	return order.UserEmail
}

// invoicePayload is the subset of the invoice object the renewal flow needs.
// It is parsed from the raw payload because the invoice's subscription and
// period references moved between API versions; the raw form keeps both the
// old and new locations reachable.
type invoicePayload struct {
	ID            string `json:"id"`
	BillingReason string `json:"billing_reason"`
	Subscription  string `json:"subscription"`
	Parent        *struct {
		SubscriptionDetails *struct {
			Subscription string `json:"subscription"`
		} `json:"subscription_details"`
	} `json:"parent"`
	Lines struct {
		Data []struct {
			Period struct {
				Start int64 `json:"start"`
				End   int64 `json:"end"`
			} `json:"period"`
		} `json:"data"`
	} `json:"lines"`
}

func (p *invoicePayload) subscriptionID() string {
	if p.Parent != nil && p.Parent.SubscriptionDetails != nil && p.Parent.SubscriptionDetails.Subscription != "" {
		return p.Parent.SubscriptionDetails.Subscription
	}
	return p.Subscription
}
