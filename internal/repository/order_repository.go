package repository

import (
	"context"
	"time"

	"github.com/devmarket/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id uint64) (*model.Order, error)
	ListByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error)
	ListPendingByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error)
	ListSalesBySeller(ctx context.Context, sellerUID string) ([]model.Order, error)
	Update(ctx context.Context, o *model.Order) error
	// SetPaymentStatusByIntent keeps orders in step with payment intent
	// lifecycle events. Returns the number of rows touched.
	SetPaymentStatusByIntent(ctx context.Context, intentID, paymentStatus string) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) FindByID(ctx context.Context, id uint64) (*model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error) {
	var list []model.Order
	if err := r.db.WithContext(ctx).
		Where("buyer_uid = ?", buyerUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepository) ListPendingByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error) {
	var list []model.Order
	if err := r.db.WithContext(ctx).
		Where("buyer_uid = ? AND payment_status = ?", buyerUID, model.PaymentStatusPending).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepository) ListSalesBySeller(ctx context.Context, sellerUID string) ([]model.Order, error) {
	var list []model.Order
	if err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = orders.product_id").
		Where("products.seller_uid = ? AND orders.payment_status = ?", sellerUID, model.PaymentStatusSucceeded).
		Order("orders.id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepository) Update(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *orderRepository) SetPaymentStatusByIntent(ctx context.Context, intentID, paymentStatus string) (int64, error) {
	updates := map[string]interface{}{
		"payment_status": paymentStatus,
	}
	if paymentStatus == model.PaymentStatusSucceeded {
		updates["status"] = model.OrderStatusPaid
		updates["paid_at"] = time.Now()
	}
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("stripe_payment_intent = ?", intentID).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
