package handler

import (
	"net/http"
	"strconv"

	"github.com/devmarket/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type FileHandler struct {
	svc service.FileService
}

func NewFileHandler(svc service.FileService) *FileHandler {
	return &FileHandler{svc: svc}
}

type FileResponse struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	ProductID   *uint64 `json:"productId,omitempty"`
}

type SignedFileResponse struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

func (h *FileHandler) Upload(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "no file provided"))
	}
	title := c.FormValue("title")
	description := c.FormValue("description")

	var productID *uint64
	if raw := c.FormValue("product_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid product_id"))
		}
		productID = &id
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to read upload"))
	}
	defer src.Close()

	f, err := h.svc.Upload(c.Request().Context(), uid, fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), title, description, fileHeader.Size, productID, src)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "product not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusCreated, FileResponse{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		ProductID:   f.ProductID,
	})
}

// ProductFiles returns time-limited download URLs, only for buyers with
// a succeeded payment for the product.
func (h *FileHandler) ProductFiles(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid product id"))
	}
	files, err := h.svc.ProductFiles(c.Request().Context(), id, uid)
	if err != nil {
		switch err {
		case service.ErrNotPurchased:
			return c.JSON(http.StatusForbidden, NewErrorResponse("not_purchased", "you have not purchased this product"))
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "no files found for this product"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch files"))
		}
	}
	resp := make([]SignedFileResponse, 0, len(files))
	for _, f := range files {
		resp = append(resp, SignedFileResponse{
			Title:       f.Title,
			Description: f.Description,
			URL:         f.URL,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
