package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/devmarket/marketplace-backend/internal/model"
	"github.com/devmarket/marketplace-backend/internal/repository"
	"github.com/devmarket/marketplace-backend/internal/storage"
	"gorm.io/gorm"
)

var ErrNotPurchased = errors.New("not_purchased")

const (
	maxUploadBytes = 10 << 20 // 10MB
	signedURLTTL   = time.Hour
)

type SignedFile struct {
	Title       string
	Description string
	URL         string
}

type FileService interface {
	Upload(ctx context.Context, ownerUID, filename, contentType, title, description string, size int64, productID *uint64, r io.Reader) (*model.ProjectFile, error)
	// ProductFiles returns signed URLs for the product's files, gated on
	// a succeeded payment by the caller.
	ProductFiles(ctx context.Context, productID uint64, uid string) ([]SignedFile, error)
}

type fileService struct {
	fileRepo    repository.ProjectFileRepository
	paymentRepo repository.PaymentRepository
	productRepo repository.ProductRepository
	store       storage.FileStore
}

func NewFileService(fileRepo repository.ProjectFileRepository, paymentRepo repository.PaymentRepository, productRepo repository.ProductRepository, store storage.FileStore) FileService {
	return &fileService{
		fileRepo:    fileRepo,
		paymentRepo: paymentRepo,
		productRepo: productRepo,
		store:       store,
	}
}

func (s *fileService) Upload(ctx context.Context, ownerUID, filename, contentType, title, description string, size int64, productID *uint64, r io.Reader) (*model.ProjectFile, error) {
	if title == "" {
		return nil, errors.New("title is required")
	}
	if size > maxUploadBytes {
		return nil, errors.New("file size exceeds 10MB limit")
	}
	if productID != nil {
		product, err := s.productRepo.FindByID(ctx, *productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if product.SellerUID != ownerUID {
			return nil, ErrForbidden
		}
	}

	objectName := storage.ObjectName(ownerUID, filename)
	if err := s.store.Upload(ctx, objectName, contentType, io.LimitReader(r, maxUploadBytes)); err != nil {
		return nil, err
	}

	f := &model.ProjectFile{
		OwnerUID:    ownerUID,
		ProductID:   productID,
		Title:       title,
		Description: description,
		ObjectName:  objectName,
		ContentType: contentType,
		SizeBytes:   size,
	}
	if err := s.fileRepo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *fileService) ProductFiles(ctx context.Context, productID uint64, uid string) ([]SignedFile, error) {
	purchased, err := s.paymentRepo.HasSucceededPayment(ctx, productID, uid)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, ErrNotPurchased
	}

	files, err := s.fileRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNotFound
	}

	resp := make([]SignedFile, 0, len(files))
	for _, f := range files {
		url, err := s.store.SignedURL(f.ObjectName, signedURLTTL)
		if err != nil {
			return nil, err
		}
		resp = append(resp, SignedFile{
			Title:       f.Title,
			Description: f.Description,
			URL:         url,
		})
	}
	return resp, nil
}
