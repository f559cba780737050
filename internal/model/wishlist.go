package model

import "time"

type WishlistEntry struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserUID   string    `gorm:"column:user_uid;size:128;not null;uniqueIndex:uk_wishlist_user_product,priority:1"`
	ProductID uint64    `gorm:"column:product_id;not null;uniqueIndex:uk_wishlist_user_product,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (WishlistEntry) TableName() string {
	return "wishlist_entries"
}
