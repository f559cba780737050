package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/devmarket/marketplace-backend/internal/model"
	"github.com/devmarket/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	svc     service.ProductService
	publish service.PublishService
}

func NewProductHandler(svc service.ProductService, publish service.PublishService) *ProductHandler {
	return &ProductHandler{svc: svc, publish: publish}
}

type ProductResponse struct {
	ID                 uint64 `json:"id"`
	SellerUID          string `json:"sellerUid"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Category           string `json:"category"`
	Language           string `json:"language,omitempty"`
	PriceCents         int64  `json:"priceCents"`
	Published          bool   `json:"published"`
	PendingPublication bool   `json:"pendingPublication"`
	CreatedAt          string `json:"createdAt"`
	UpdatedAt          string `json:"updatedAt"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
}

type CreateProductRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Language    string `json:"language"`
	PriceCents  int64  `json:"priceCents"`
}

func toProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:                 p.ID,
		SellerUID:          p.SellerUID,
		Title:              p.Title,
		Description:        p.Description,
		Category:           p.Category,
		Language:           p.Language,
		PriceCents:         p.PriceCents,
		Published:          p.Published,
		PendingPublication: p.PendingPublication,
		CreatedAt:          p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          p.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *ProductHandler) Create(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	product, err := h.svc.Create(c.Request().Context(), uid, req.Title, req.Description, req.Category, req.Language, req.PriceCents)
	if err != nil {
		if err == service.ErrProductLimit {
			return c.JSON(http.StatusForbidden, NewErrorResponse("product_limit", "product limit reached"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toProductResponse(product))
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	product, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "product not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch product"))
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	products, total, err := h.svc.ListPublished(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch products"))
	}
	resp := ProductListResponse{
		Products: make([]ProductResponse, 0, len(products)),
		Total:    total,
	}
	for i := range products {
		resp.Products = append(resp.Products, toProductResponse(&products[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	products, err := h.svc.ListMine(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch products"))
	}
	resp := make([]ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, toProductResponse(&products[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Publish starts Stripe onboarding for the product's seller and returns
// the onboarding URL to redirect to.
func (h *ProductHandler) Publish(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	url, err := h.publish.PublishProduct(c.Request().Context(), id, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "product not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		case service.ErrAlreadyPublished:
			return c.JSON(http.StatusConflict, NewErrorResponse("already_published", "product already published"))
		case service.ErrExternalService:
			return c.JSON(http.StatusBadGateway, NewErrorResponse("stripe_error", "failed to reach payment provider, try again"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to start onboarding"))
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"onboardingUrl": url})
}

// CompleteOnboarding finalizes publication after the seller returns
// from Stripe. Returns a retryable conflict while charges are still
// disabled on the account.
func (h *ProductHandler) CompleteOnboarding(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.QueryParam("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid product_id"))
	}
	if err := h.publish.CompleteOnboarding(c.Request().Context(), id, uid); err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "product not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		case service.ErrChargesNotEnabled:
			return c.JSON(http.StatusConflict, NewErrorResponse("charges_not_enabled", "stripe account is not enabled for charges yet"))
		case service.ErrExternalService:
			return c.JSON(http.StatusBadGateway, NewErrorResponse("stripe_error", "failed to reach payment provider, try again"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to complete onboarding"))
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "published"})
}
