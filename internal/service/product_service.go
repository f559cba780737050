package service

import (
	"context"
	"errors"
	"strings"

	"github.com/devmarket/marketplace-backend/internal/model"
	"github.com/devmarket/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not_found")
var ErrForbidden = errors.New("forbidden")
var ErrProductLimit = errors.New("product_limit_reached")

// maxProductsPerSeller caps how many listings one seller may create.
const maxProductsPerSeller = 10

type ProductService interface {
	Create(ctx context.Context, sellerUID, title, description, category, language string, priceCents int64) (*model.Product, error)
	Get(ctx context.Context, id uint64) (*model.Product, error)
	ListPublished(ctx context.Context, limit, offset int) ([]model.Product, int64, error)
	ListMine(ctx context.Context, sellerUID string) ([]model.Product, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, sellerUID, title, description, category, language string, priceCents int64) (*model.Product, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	category = strings.TrimSpace(category)
	if title == "" || len(title) > 255 {
		return nil, errors.New("invalid title")
	}
	if description == "" {
		return nil, errors.New("invalid description")
	}
	if category == "" {
		return nil, errors.New("category is required")
	}
	if priceCents <= 0 {
		return nil, errors.New("price must be greater than 0")
	}

	count, err := s.repo.CountBySeller(ctx, sellerUID)
	if err != nil {
		return nil, err
	}
	if count >= maxProductsPerSeller {
		return nil, ErrProductLimit
	}

	product := &model.Product{
		SellerUID:   sellerUID,
		Title:       title,
		Description: description,
		Category:    category,
		Language:    strings.TrimSpace(language),
		PriceCents:  priceCents,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Get(ctx context.Context, id uint64) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) ListPublished(ctx context.Context, limit, offset int) ([]model.Product, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListPublished(ctx, limit, offset)
}

func (s *productService) ListMine(ctx context.Context, sellerUID string) ([]model.Product, error) {
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	return s.repo.ListBySeller(ctx, sellerUID)
}
