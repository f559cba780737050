package repository

import (
	"context"

	"github.com/devmarket/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) error
	// CreateWithOrder inserts the payment and its order in one
	// transaction so a crash between the two writes never leaves a
	// Payment without its Order.
	CreateWithOrder(ctx context.Context, p *model.Payment, o *model.Order) error
	FindByIntentID(ctx context.Context, intentID string) (*model.Payment, error)
	FindByID(ctx context.Context, id uint64) (*model.Payment, error)
	Update(ctx context.Context, p *model.Payment) error
	HasSucceededPayment(ctx context.Context, productID uint64, buyerUID string) (bool, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *model.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paymentRepository) CreateWithOrder(ctx context.Context, p *model.Payment, o *model.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Create(o).Error
	})
}

func (r *paymentRepository) FindByIntentID(ctx context.Context, intentID string) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.WithContext(ctx).
		Where("stripe_payment_intent_id = ?", intentID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint64) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *model.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *paymentRepository) HasSucceededPayment(ctx context.Context, productID uint64, buyerUID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("product_id = ? AND buyer_uid = ? AND succeeded = ?", productID, buyerUID, true).
		Count(&count).Error
	return count > 0, err
}
