package model

import "time"

type Product struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	SellerUID   string `gorm:"column:seller_uid;size:128;index;not null"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text;not null"`
	Category    string `gorm:"size:50;not null"`
	Language    string `gorm:"size:50"`
	PriceCents  int64  `gorm:"column:price_cents;not null"`
	// Published controls marketplace visibility. PendingPublication is set
	// while Stripe onboarding is still incomplete; the two are never both true.
	Published          bool      `gorm:"not null;default:false"`
	PendingPublication bool      `gorm:"column:pending_publication;not null;default:false"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
