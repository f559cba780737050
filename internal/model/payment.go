package model

import "time"

// Payment is the local record of a Stripe payment intent. Rows are only
// ever created and updated, never deleted. The unique index on the
// intent id doubles as the idempotency gate for duplicate webhook
// deliveries: a second concurrent insert fails the constraint and is
// treated like a duplicate.
type Payment struct {
	ID                    uint64 `gorm:"primaryKey;autoIncrement"`
	StripePaymentIntentID string `gorm:"column:stripe_payment_intent_id;size:255;uniqueIndex;not null"`
	// BuyerUID is nil for guest checkouts.
	BuyerUID    *string    `gorm:"column:buyer_uid;size:128;index"`
	ProductID   uint64     `gorm:"column:product_id;index;not null"`
	AmountCents int64      `gorm:"column:amount_cents;not null"`
	Succeeded   bool       `gorm:"not null;default:false"`
	SucceededAt *time.Time `gorm:"column:succeeded_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
}

func (Payment) TableName() string {
	return "payments"
}
