package model

import "time"

// User mirrors the Firebase account plus marketplace-specific fields.
// StripeAccountID is filled lazily on the first publish attempt.
type User struct {
	UID             string    `gorm:"column:uid;size:128;primaryKey"`
	Email           string    `gorm:"size:255;uniqueIndex;not null"`
	FullName        string    `gorm:"size:255"`
	Country         string    `gorm:"size:2;default:'PT'"`
	StripeAccountID *string   `gorm:"column:stripe_account_id;size:255"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
