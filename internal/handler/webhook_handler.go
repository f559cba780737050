package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/devmarket/marketplace-backend/internal/service"
	"github.com/devmarket/marketplace-backend/internal/stripeclient"
	"github.com/labstack/echo/v4"
)

// maxWebhookBodyBytes caps the webhook payload read; Stripe events are
// far below this.
const maxWebhookBodyBytes = 1 << 20

type WebhookHandler struct {
	stripe stripeclient.Client
	svc    service.WebhookService
}

func NewWebhookHandler(sc stripeclient.Client, svc service.WebhookService) *WebhookHandler {
	return &WebhookHandler{stripe: sc, svc: svc}
}

// Handle is the Stripe webhook endpoint. It acknowledges anything it
// chooses to process (including duplicates and unknown event types)
// with 200 so Stripe stops redelivering, and reports 500 on internal
// failures so Stripe retries.
func (h *WebhookHandler) Handle(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBodyBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "failed to read body"))
	}

	event, err := h.stripe.ConstructEvent(payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		log.Printf("webhook: signature verification failed: %v", err)
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_signature", "webhook signature verification failed"))
	}

	if err := h.svc.HandleEvent(c.Request().Context(), event); err != nil {
		switch {
		case errors.Is(err, service.ErrMalformedEvent):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("malformed_event", "event is missing required metadata"))
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "referenced product not found"))
		default:
			log.Printf("webhook: processing failed for %s: %v", event.Type, err)
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "event processing failed"))
		}
	}
	return c.NoContent(http.StatusOK)
}
