package model

import "time"

// ProjectFile points at an object in the storage bucket. Buyers only
// ever see short-lived signed URLs, never ObjectName directly.
type ProjectFile struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	OwnerUID    string    `gorm:"column:owner_uid;size:128;index;not null"`
	ProductID   *uint64   `gorm:"column:product_id;index"`
	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text"`
	ObjectName  string    `gorm:"column:object_name;size:512;not null"`
	ContentType string    `gorm:"column:content_type;size:100"`
	SizeBytes   int64     `gorm:"column:size_bytes"`
	IsMainFile  bool      `gorm:"column:is_main_file;not null;default:false"`
	UploadedAt  time.Time `gorm:"column:uploaded_at;autoCreateTime"`
}

func (ProjectFile) TableName() string {
	return "project_files"
}
