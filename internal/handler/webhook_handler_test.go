package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devmarket/marketplace-backend/internal/service"
	"github.com/devmarket/marketplace-backend/internal/stripeclient"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v74"
)

type fakeVerifier struct {
	event stripe.Event
	err   error

	lastPayload []byte
	lastSig     string
}

func (f *fakeVerifier) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	f.lastPayload = payload
	f.lastSig = sigHeader
	return f.event, f.err
}

func (f *fakeVerifier) CreateAccount(ctx context.Context, email, country string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeVerifier) GetAccount(ctx context.Context, accountID string) (*stripe.Account, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeVerifier) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeVerifier) CreateCheckoutSession(ctx context.Context, p stripeclient.CheckoutSessionParams) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeVerifier) CreatePaymentIntent(ctx context.Context, p stripeclient.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeVerifier) GetPaymentIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error) {
	return nil, errors.New("not implemented")
}

type fakeWebhookService struct {
	err   error
	calls int
}

func (f *fakeWebhookService) HandleEvent(ctx context.Context, event stripe.Event) error {
	f.calls++
	return f.err
}

func postWebhook(h *WebhookHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/stripe-webhook", strings.NewReader(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=sig")
	rec := httptest.NewRecorder()
	if err := h.Handle(e.NewContext(req, rec)); err != nil {
		e.HTTPErrorHandler(err, e.NewContext(req, rec))
	}
	return rec
}

func TestWebhookHandler(t *testing.T) {
	t.Run("invalid signature rejected", func(t *testing.T) {
		verifier := &fakeVerifier{err: errors.New("bad signature")}
		svc := &fakeWebhookService{}
		h := NewWebhookHandler(verifier, svc)

		rec := postWebhook(h, `{"type":"checkout.session.completed"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid_signature")
		assert.Equal(t, 0, svc.calls, "service must not see unverified events")
	})

	t.Run("verified event forwarded", func(t *testing.T) {
		verifier := &fakeVerifier{event: stripe.Event{Type: "checkout.session.completed"}}
		svc := &fakeWebhookService{}
		h := NewWebhookHandler(verifier, svc)

		rec := postWebhook(h, `{"type":"checkout.session.completed"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, svc.calls)
		assert.Equal(t, "t=1,v1=sig", verifier.lastSig)
		assert.Equal(t, `{"type":"checkout.session.completed"}`, string(verifier.lastPayload))
	})

	t.Run("unknown event type acknowledged", func(t *testing.T) {
		verifier := &fakeVerifier{event: stripe.Event{Type: "invoice.paid"}}
		h := NewWebhookHandler(verifier, &fakeWebhookService{})

		rec := postWebhook(h, `{"type":"invoice.paid"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("service errors mapped to status codes", func(t *testing.T) {
		tests := []struct {
			name     string
			err      error
			wantCode int
		}{
			{"malformed event", service.ErrMalformedEvent, http.StatusBadRequest},
			{"unknown product", service.ErrNotFound, http.StatusNotFound},
			{"internal failure", errors.New("db down"), http.StatusInternalServerError},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				verifier := &fakeVerifier{event: stripe.Event{Type: "checkout.session.completed"}}
				h := NewWebhookHandler(verifier, &fakeWebhookService{err: tt.err})

				rec := postWebhook(h, `{}`)

				assert.Equal(t, tt.wantCode, rec.Code)
			})
		}
	})
}
