package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/devmarket/marketplace-backend/internal/model"
	"github.com/devmarket/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type RatingHandler struct {
	svc service.RatingService
}

func NewRatingHandler(svc service.RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

type RatingResponse struct {
	ID        uint64 `json:"id"`
	UserUID   string `json:"userUid"`
	ProductID uint64 `json:"productId"`
	Score     int    `json:"score"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type RatingListResponse struct {
	Ratings []RatingResponse `json:"ratings"`
	Average float64          `json:"average"`
}

func toRatingResponse(r *model.Rating) RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		UserUID:   r.UserUID,
		ProductID: r.ProductID,
		Score:     r.Score,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

func (h *RatingHandler) Create(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid product id"))
	}
	var req struct {
		Score   int    `json:"score"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	rating, err := h.svc.Rate(c.Request().Context(), uid, productID, req.Score, req.Comment)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "product not found"))
		case service.ErrAlreadyRated:
			return c.JSON(http.StatusConflict, NewErrorResponse("already_rated", "you already rated this product"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusCreated, toRatingResponse(rating))
}

func (h *RatingHandler) ListByProduct(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid product id"))
	}
	ratings, avg, err := h.svc.ListByProduct(c.Request().Context(), productID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch ratings"))
	}
	resp := RatingListResponse{
		Ratings: make([]RatingResponse, 0, len(ratings)),
		Average: avg,
	}
	for i := range ratings {
		resp.Ratings = append(resp.Ratings, toRatingResponse(&ratings[i]))
	}
	return c.JSON(http.StatusOK, resp)
}
