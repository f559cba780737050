package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/devmarket/marketplace-backend/internal/model"
	"github.com/devmarket/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	svc service.PaymentService
}

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type PaymentResponse struct {
	ID                    uint64  `json:"id"`
	StripePaymentIntentID string  `json:"stripePaymentIntentId"`
	BuyerUID              *string `json:"buyerUid,omitempty"`
	ProductID             uint64  `json:"productId"`
	AmountCents           int64   `json:"amountCents"`
	Succeeded             bool    `json:"succeeded"`
	SucceededAt           *string `json:"succeededAt,omitempty"`
	CreatedAt             string  `json:"createdAt"`
}

func toPaymentResponse(p *model.Payment) PaymentResponse {
	var succeededAt *string
	if p.SucceededAt != nil {
		val := p.SucceededAt.Format(time.RFC3339)
		succeededAt = &val
	}
	return PaymentResponse{
		ID:                    p.ID,
		StripePaymentIntentID: p.StripePaymentIntentID,
		BuyerUID:              p.BuyerUID,
		ProductID:             p.ProductID,
		AmountCents:           p.AmountCents,
		Succeeded:             p.Succeeded,
		SucceededAt:           succeededAt,
		CreatedAt:             p.CreatedAt.Format(time.RFC3339),
	}
}

func paymentErrorResponse(c echo.Context, err error) error {
	switch err {
	case service.ErrNotFound:
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "product not found"))
	case service.ErrVendorNotOnboarded:
		return c.JSON(http.StatusBadRequest, NewErrorResponse("vendor_not_onboarded", "vendor has no stripe account"))
	case service.ErrExternalService:
		return c.JSON(http.StatusBadGateway, NewErrorResponse("stripe_error", "failed to reach payment provider, try again"))
	default:
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "payment request failed"))
	}
}

func (h *PaymentHandler) CreateCheckoutSession(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	var req struct {
		ProductID uint64 `json:"productId"`
	}
	if err := c.Bind(&req); err != nil || req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "productId is required"))
	}
	sessionID, err := h.svc.CreateCheckoutSession(c.Request().Context(), req.ProductID, uid)
	if err != nil {
		return paymentErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"sessionId": sessionID})
}

func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req struct {
		ProductID uint64 `json:"productId"`
	}
	if err := c.Bind(&req); err != nil || req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "productId is required"))
	}
	clientSecret, err := h.svc.CreatePaymentIntent(c.Request().Context(), req.ProductID, uid)
	if err != nil {
		return paymentErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"clientSecret": clientSecret})
}

func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req struct {
		PaymentIntentID string `json:"paymentIntentId"`
	}
	if err := c.Bind(&req); err != nil || req.PaymentIntentID == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "paymentIntentId is required"))
	}
	if err := h.svc.ConfirmPayment(c.Request().Context(), req.PaymentIntentID, uid); err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "payment not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		case service.ErrPaymentNotSucceeded:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("payment_not_succeeded", "payment not successful"))
		case service.ErrExternalService:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("stripe_error", "stripe error during payment confirmation"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to confirm payment"))
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "payment confirmed"})
}

func (h *PaymentHandler) Get(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	payment, err := h.svc.GetPayment(c.Request().Context(), id, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "payment not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch payment"))
		}
	}
	return c.JSON(http.StatusOK, toPaymentResponse(payment))
}
