package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devmarket/marketplace-backend/internal/model"
	"github.com/devmarket/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type fakePaymentService struct {
	sessionID string
	err       error
}

func (f *fakePaymentService) CreateCheckoutSession(ctx context.Context, productID uint64, buyerUID string) (string, error) {
	return f.sessionID, f.err
}

func (f *fakePaymentService) CreatePaymentIntent(ctx context.Context, productID uint64, buyerUID string) (string, error) {
	return "", f.err
}

func (f *fakePaymentService) ConfirmPayment(ctx context.Context, intentID, buyerUID string) error {
	return f.err
}

func (f *fakePaymentService) GetPayment(ctx context.Context, id uint64, uid string) (*model.Payment, error) {
	return nil, f.err
}

func postCheckoutSession(h *PaymentHandler, uid string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(`{"productId":7}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != "" {
		c.Set("uid", uid)
	}
	if err := h.CreateCheckoutSession(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestCreateCheckoutSessionHandler(t *testing.T) {
	t.Run("returns session id", func(t *testing.T) {
		h := NewPaymentHandler(&fakePaymentService{sessionID: "cs_test_1"})

		rec := postCheckoutSession(h, "buyer-1")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "cs_test_1")
	})

	t.Run("service errors mapped to status codes", func(t *testing.T) {
		tests := []struct {
			name     string
			err      error
			wantCode int
			wantBody string
		}{
			{"unknown product", service.ErrNotFound, http.StatusNotFound, "not_found"},
			{"vendor not onboarded", service.ErrVendorNotOnboarded, http.StatusBadRequest, "vendor_not_onboarded"},
			{"stripe unreachable", service.ErrExternalService, http.StatusBadGateway, "stripe_error"},
			{"internal failure", errors.New("Error 1146: table 'payments' doesn't exist"), http.StatusInternalServerError, "internal_error"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := NewPaymentHandler(&fakePaymentService{err: tt.err})

				rec := postCheckoutSession(h, "buyer-1")

				assert.Equal(t, tt.wantCode, rec.Code)
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			})
		}
	})

	t.Run("internal errors are not echoed to clients", func(t *testing.T) {
		h := NewPaymentHandler(&fakePaymentService{err: errors.New("dial tcp 10.0.0.3:3306: connect: connection refused")})

		rec := postCheckoutSession(h, "buyer-1")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "10.0.0.3")
	})
}
