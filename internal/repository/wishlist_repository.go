package repository

import (
	"context"

	"github.com/devmarket/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type WishlistRepository interface {
	Add(ctx context.Context, userUID string, productID uint64) error
	Remove(ctx context.Context, userUID string, productID uint64) (int64, error)
	ListByUser(ctx context.Context, userUID string) ([]model.WishlistEntry, error)
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Add(ctx context.Context, userUID string, productID uint64) error {
	entry := &model.WishlistEntry{UserUID: userUID, ProductID: productID}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *wishlistRepository) Remove(ctx context.Context, userUID string, productID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_uid = ? AND product_id = ?", userUID, productID).
		Delete(&model.WishlistEntry{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *wishlistRepository) ListByUser(ctx context.Context, userUID string) ([]model.WishlistEntry, error) {
	var list []model.WishlistEntry
	if err := r.db.WithContext(ctx).
		Where("user_uid = ?", userUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
