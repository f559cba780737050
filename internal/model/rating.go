package model

import "time"

type Rating struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserUID   string    `gorm:"column:user_uid;size:128;not null;uniqueIndex:uk_ratings_user_product,priority:1"`
	ProductID uint64    `gorm:"column:product_id;not null;uniqueIndex:uk_ratings_user_product,priority:2"`
	Score     int       `gorm:"not null"` // 1-5
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Rating) TableName() string {
	return "ratings"
}
