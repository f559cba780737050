package repository

import (
	"context"

	"github.com/devmarket/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByUID(ctx context.Context, uid string) (*model.User, error)
	Upsert(ctx context.Context, u *model.User) error
	SetStripeAccountID(ctx context.Context, uid, accountID string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Upsert(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).
		Where("uid = ?", u.UID).
		FirstOrCreate(u, &model.User{UID: u.UID, Email: u.Email}).Error
}

func (r *userRepository) SetStripeAccountID(ctx context.Context, uid, accountID string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("uid = ?", uid).
		Update("stripe_account_id", accountID).Error
}
