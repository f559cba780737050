package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusDelivered OrderStatus = "delivered"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

type Order struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`
	// BuyerUID is nil for guest checkouts.
	BuyerUID  *string     `gorm:"column:buyer_uid;size:128;index"`
	ProductID uint64      `gorm:"column:product_id;index;not null"`
	Status    OrderStatus `gorm:"column:status;size:20;not null;default:'pending'"`

	StripePaymentIntent string     `gorm:"column:stripe_payment_intent;size:255;index"`
	PaymentStatus       string     `gorm:"column:payment_status;size:50;not null;default:'pending'"`
	PaidAt              *time.Time `gorm:"column:paid_at"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}
