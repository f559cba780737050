package repository

import (
	"context"

	"github.com/devmarket/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(ctx context.Context, rating *model.Rating) error
	ListByProduct(ctx context.Context, productID uint64) ([]model.Rating, error)
	AverageByProduct(ctx context.Context, productID uint64) (float64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rating *model.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *ratingRepository) ListByProduct(ctx context.Context, productID uint64) ([]model.Rating, error) {
	var list []model.Rating
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ratingRepository) AverageByProduct(ctx context.Context, productID uint64) (float64, error) {
	var avg *float64
	if err := r.db.WithContext(ctx).
		Model(&model.Rating{}).
		Where("product_id = ?", productID).
		Select("AVG(score)").
		Scan(&avg).Error; err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
