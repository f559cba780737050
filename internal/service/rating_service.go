package service

import (
	"context"
	"errors"

	"github.com/devmarket/marketplace-backend/internal/model"
	"github.com/devmarket/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrAlreadyRated = errors.New("already_rated")

type RatingService interface {
	Rate(ctx context.Context, userUID string, productID uint64, score int, comment string) (*model.Rating, error)
	ListByProduct(ctx context.Context, productID uint64) ([]model.Rating, float64, error)
}

type ratingService struct {
	ratingRepo  repository.RatingRepository
	productRepo repository.ProductRepository
}

func NewRatingService(ratingRepo repository.RatingRepository, productRepo repository.ProductRepository) RatingService {
	return &ratingService{ratingRepo: ratingRepo, productRepo: productRepo}
}

func (s *ratingService) Rate(ctx context.Context, userUID string, productID uint64, score int, comment string) (*model.Rating, error) {
	if score < 1 || score > 5 {
		return nil, errors.New("score must be between 1 and 5")
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rating := &model.Rating{
		UserUID:   userUID,
		ProductID: productID,
		Score:     score,
		Comment:   comment,
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyRated
		}
		return nil, err
	}
	return rating, nil
}

func (s *ratingService) ListByProduct(ctx context.Context, productID uint64) ([]model.Rating, float64, error) {
	ratings, err := s.ratingRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	avg, err := s.ratingRepo.AverageByProduct(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	return ratings, avg, nil
}
