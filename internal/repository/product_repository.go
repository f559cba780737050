package repository

import (
	"context"

	"github.com/devmarket/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uint64) (*model.Product, error)
	ListPublished(ctx context.Context, limit, offset int) ([]model.Product, int64, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.Product, error)
	CountBySeller(ctx context.Context, sellerUID string) (int64, error)
	Update(ctx context.Context, p *model.Product) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uint64) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) ListPublished(ctx context.Context, limit, offset int) ([]model.Product, int64, error) {
	var (
		products []model.Product
		total    int64
	)
	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("published = ?", true)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerUID string) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).
		Where("seller_uid = ?", sellerUID).
		Order("id DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) CountBySeller(ctx context.Context, sellerUID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("seller_uid = ?", sellerUID).
		Count(&count).Error
	return count, err
}

func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}
