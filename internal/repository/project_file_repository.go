package repository

import (
	"context"

	"github.com/devmarket/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type ProjectFileRepository interface {
	Create(ctx context.Context, f *model.ProjectFile) error
	ListByProduct(ctx context.Context, productID uint64) ([]model.ProjectFile, error)
	ListByOwner(ctx context.Context, ownerUID string) ([]model.ProjectFile, error)
}

type projectFileRepository struct {
	db *gorm.DB
}

func NewProjectFileRepository(db *gorm.DB) ProjectFileRepository {
	return &projectFileRepository{db: db}
}

func (r *projectFileRepository) Create(ctx context.Context, f *model.ProjectFile) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *projectFileRepository) ListByProduct(ctx context.Context, productID uint64) ([]model.ProjectFile, error) {
	var files []model.ProjectFile
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *projectFileRepository) ListByOwner(ctx context.Context, ownerUID string) ([]model.ProjectFile, error) {
	var files []model.ProjectFile
	if err := r.db.WithContext(ctx).
		Where("owner_uid = ?", ownerUID).
		Order("id DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}
