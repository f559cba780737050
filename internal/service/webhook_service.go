package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/devmarket/marketplace-backend/internal/metrics"
	"github.com/devmarket/marketplace-backend/internal/model"
	"github.com/devmarket/marketplace-backend/internal/repository"
	stripe "github.com/stripe/stripe-go/v74"
	"gorm.io/gorm"
)

var ErrMalformedEvent = errors.New("malformed_event")

// EventKind is the closed set of webhook event variants this service
// reacts to. Everything else maps to EventOther and is acknowledged
// without side effects so Stripe stops redelivering.
type EventKind int

const (
	EventOther EventKind = iota
	EventCheckoutCompleted
	EventPaymentSucceeded
	EventPaymentFailed
)

func ClassifyEvent(eventType string) EventKind {
	switch eventType {
	case "checkout.session.completed":
		return EventCheckoutCompleted
	case "payment_intent.succeeded":
		return EventPaymentSucceeded
	case "payment_intent.payment_failed":
		return EventPaymentFailed
	default:
		return EventOther
	}
}

type WebhookService interface {
	HandleEvent(ctx context.Context, event stripe.Event) error
}

type webhookService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	notify      NotificationService
	metrics     *metrics.PaymentMetrics
}

func NewWebhookService(paymentRepo repository.PaymentRepository, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, notify NotificationService, m *metrics.PaymentMetrics) WebhookService {
	return &webhookService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		notify:      notify,
		metrics:     m,
	}
}

func (s *webhookService) HandleEvent(ctx context.Context, event stripe.Event) error {
	kind := ClassifyEvent(string(event.Type))

	var err error
	switch kind {
	case EventCheckoutCompleted:
		err = s.handleCheckoutCompleted(ctx, event)
	case EventPaymentSucceeded:
		err = s.handleIntentOutcome(ctx, event, true)
	case EventPaymentFailed:
		err = s.handleIntentOutcome(ctx, event, false)
	default:
		log.Printf("webhook: ignoring event type %s", event.Type)
	}

	s.countEvent(string(event.Type), err)
	return err
}

// handleCheckoutCompleted creates the Payment and Order pair for a
// completed hosted checkout. Redelivered events are detected either by
// the pre-insert lookup or, under concurrent delivery, by the unique
// index on the payment intent id; both paths are acknowledged no-ops.
func (s *webhookService) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	// A correctly signed envelope can still arrive without a data object.
	if event.Data == nil {
		return ErrMalformedEvent
	}
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return ErrMalformedEvent
	}
	if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
		return ErrMalformedEvent
	}
	intentID := sess.PaymentIntent.ID

	productIDRaw := sess.Metadata["product_id"]
	if productIDRaw == "" {
		log.Printf("webhook: checkout session %s has no product_id metadata", sess.ID)
		return ErrMalformedEvent
	}
	productID, err := strconv.ParseUint(productIDRaw, 10, 64)
	if err != nil {
		return ErrMalformedEvent
	}

	// Guest checkouts have no user_id; older clients sent the literal
	// string "guest". Both map to a nil buyer.
	var buyerUID *string
	if uid := sess.Metadata["user_id"]; uid != "" && uid != "guest" {
		buyerUID = &uid
	}

	if _, err := s.paymentRepo.FindByIntentID(ctx, intentID); err == nil {
		log.Printf("webhook: duplicate checkout event for intent %s, skipping", intentID)
		s.countDuplicate()
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("webhook: product %d not found for intent %s", productID, intentID)
			return ErrNotFound
		}
		return err
	}

	now := time.Now()
	payment := &model.Payment{
		StripePaymentIntentID: intentID,
		BuyerUID:              buyerUID,
		ProductID:             product.ID,
		AmountCents:           product.PriceCents,
		Succeeded:             true,
		SucceededAt:           &now,
	}
	order := &model.Order{
		BuyerUID:            buyerUID,
		ProductID:           product.ID,
		Status:              model.OrderStatusPaid,
		StripePaymentIntent: intentID,
		PaymentStatus:       model.PaymentStatusSucceeded,
		PaidAt:              &now,
	}
	if err := s.paymentRepo.CreateWithOrder(ctx, payment, order); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent delivery of the same event.
			log.Printf("webhook: concurrent duplicate insert for intent %s, skipping", intentID)
			s.countDuplicate()
			return nil
		}
		return err
	}

	if s.metrics != nil {
		s.metrics.PaymentsCreatedTotal.Inc()
		s.metrics.PaymentsAmountCents.Add(float64(payment.AmountCents))
	}
	if s.notify != nil {
		s.notify.Notify(ctx, product.SellerUID, "product_sold", "Product sold",
			"Your product \""+product.Title+"\" was purchased.", &product.ID, &order.ID)
		if buyerUID != nil {
			s.notify.Notify(ctx, *buyerUID, "payment_received", "Payment confirmed",
				"Your payment for \""+product.Title+"\" was received.", &product.ID, &order.ID)
		}
	}
	return nil
}

// handleIntentOutcome applies a terminal payment intent state to the
// local Payment and its Order. A missing Payment is acknowledged: the
// event may have raced ahead of local creation and Stripe redelivers
// on its own schedule. Re-applying the same terminal state is a no-op.
func (s *webhookService) handleIntentOutcome(ctx context.Context, event stripe.Event, succeeded bool) error {
	if event.Data == nil {
		return ErrMalformedEvent
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return ErrMalformedEvent
	}
	if pi.ID == "" {
		return ErrMalformedEvent
	}

	payment, err := s.paymentRepo.FindByIntentID(ctx, pi.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("webhook: payment with intent %s not found for %s", pi.ID, event.Type)
			return nil
		}
		return err
	}

	if payment.Succeeded == succeeded {
		return nil
	}

	// Last-write-wins across terminal events: a later success may
	// overwrite an earlier failure.
	payment.Succeeded = succeeded
	if succeeded {
		now := time.Now()
		payment.SucceededAt = &now
	} else {
		payment.SucceededAt = nil
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return err
	}

	paymentStatus := model.PaymentStatusFailed
	if succeeded {
		paymentStatus = model.PaymentStatusSucceeded
	}
	if _, err := s.orderRepo.SetPaymentStatusByIntent(ctx, pi.ID, paymentStatus); err != nil {
		return err
	}
	return nil
}

func (s *webhookService) countEvent(eventType string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "processed"
	switch {
	case errors.Is(err, ErrMalformedEvent):
		outcome = "malformed"
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	s.metrics.WebhookEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

func (s *webhookService) countDuplicate() {
	if s.metrics != nil {
		s.metrics.DuplicateEventsTotal.Inc()
	}
}
