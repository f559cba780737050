package service

import (
	"context"
	"errors"

	"github.com/devmarket/marketplace-backend/internal/model"
	"github.com/devmarket/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

type WishlistService interface {
	Add(ctx context.Context, userUID string, productID uint64) error
	Remove(ctx context.Context, userUID string, productID uint64) error
	List(ctx context.Context, userUID string) ([]model.Product, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) WishlistService {
	return &wishlistService{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

func (s *wishlistService) Add(ctx context.Context, userUID string, productID uint64) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.wishlistRepo.Add(ctx, userUID, productID); err != nil {
		// Adding the same product twice is fine.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

func (s *wishlistService) Remove(ctx context.Context, userUID string, productID uint64) error {
	affected, err := s.wishlistRepo.Remove(ctx, userUID, productID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *wishlistService) List(ctx context.Context, userUID string) ([]model.Product, error) {
	entries, err := s.wishlistRepo.ListByUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(entries))
	for _, e := range entries {
		product, err := s.productRepo.FindByID(ctx, e.ProductID)
		if err != nil {
			continue
		}
		products = append(products, *product)
	}
	return products, nil
}
