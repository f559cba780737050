package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/devmarket/marketplace-backend/internal/model"
	"github.com/devmarket/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type OrderResponse struct {
	ID                  uint64  `json:"id"`
	BuyerUID            *string `json:"buyerUid,omitempty"`
	ProductID           uint64  `json:"productId"`
	Status              string  `json:"status"`
	StripePaymentIntent string  `json:"stripePaymentIntent,omitempty"`
	PaymentStatus       string  `json:"paymentStatus"`
	PaidAt              *string `json:"paidAt,omitempty"`
	CreatedAt           string  `json:"createdAt"`
	UpdatedAt           string  `json:"updatedAt"`
}

type OrderWithProductResponse struct {
	Order   OrderResponse    `json:"order"`
	Product *ProductResponse `json:"product,omitempty"`
}

func toOrderResponse(o *model.Order) OrderResponse {
	var paidAt *string
	if o.PaidAt != nil {
		val := o.PaidAt.Format(time.RFC3339)
		paidAt = &val
	}
	return OrderResponse{
		ID:                  o.ID,
		BuyerUID:            o.BuyerUID,
		ProductID:           o.ProductID,
		Status:              string(o.Status),
		StripePaymentIntent: o.StripePaymentIntent,
		PaymentStatus:       o.PaymentStatus,
		PaidAt:              paidAt,
		CreatedAt:           o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           o.UpdatedAt.Format(time.RFC3339),
	}
}

func toOrderListResponse(list []service.OrderWithProduct) []OrderWithProductResponse {
	resp := make([]OrderWithProductResponse, 0, len(list))
	for _, row := range list {
		item := OrderWithProductResponse{Order: toOrderResponse(&row.Order)}
		if row.Product != nil {
			p := toProductResponse(row.Product)
			item.Product = &p
		}
		resp = append(resp, item)
	}
	return resp
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListByBuyer(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch orders"))
	}
	return c.JSON(http.StatusOK, toOrderListResponse(list))
}

func (h *OrderHandler) ListPending(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListPendingByBuyer(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch orders"))
	}
	return c.JSON(http.StatusOK, toOrderListResponse(list))
}

func (h *OrderHandler) ListSales(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListSales(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch sales"))
	}
	return c.JSON(http.StatusOK, toOrderListResponse(list))
}

func (h *OrderHandler) MarkDelivered(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid order id"))
	}
	order, err := h.svc.MarkDelivered(c.Request().Context(), id, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "order not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}
