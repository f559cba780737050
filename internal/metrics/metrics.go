package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PaymentMetrics tracks the webhook reconciliation flow.
type PaymentMetrics struct {
	WebhookEventsTotal     *prometheus.CounterVec
	PaymentsCreatedTotal   prometheus.Counter
	PaymentsAmountCents    prometheus.Counter
	DuplicateEventsTotal   prometheus.Counter
	OnboardingLinksTotal   prometheus.Counter
	ProductsPublishedTotal prometheus.Counter
}

func NewPaymentMetrics() *PaymentMetrics {
	return &PaymentMetrics{
		WebhookEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stripe_webhook_events_total",
				Help: "Webhook events received, by event type and outcome.",
			},
			[]string{"type", "outcome"},
		),
		PaymentsCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "payments_created_total",
				Help: "Payment rows created from completed checkouts.",
			},
		),
		PaymentsAmountCents: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "payments_amount_cents_total",
				Help: "Total captured amount in cents.",
			},
		),
		DuplicateEventsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stripe_webhook_duplicate_events_total",
				Help: "Redelivered events acknowledged as no-ops.",
			},
		),
		OnboardingLinksTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stripe_onboarding_links_total",
				Help: "Onboarding account links issued to sellers.",
			},
		),
		ProductsPublishedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "products_published_total",
				Help: "Products published after onboarding completed.",
			},
		),
	}
}
