package service

import (
	"context"
	"log"

	"github.com/devmarket/marketplace-backend/internal/model"
	"github.com/devmarket/marketplace-backend/internal/repository"
)

type NotificationService interface {
	Notify(ctx context.Context, userUID, typ, title, body string, productID, orderID *uint64)
	List(ctx context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, int64, error)
	MarkAllRead(ctx context.Context, userUID string) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// Notify is best-effort; it logs errors but does not return them to
// avoid breaking the payment flow.
func (s *notificationService) Notify(ctx context.Context, userUID, typ, title, body string, productID, orderID *uint64) {
	if userUID == "" || typ == "" {
		return
	}
	n := &model.Notification{
		UserUID:   userUID,
		Type:      typ,
		Title:     title,
		Body:      body,
		ProductID: productID,
		OrderID:   orderID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Printf("notification create failed for %s: %v", userUID, err)
	}
}

func (s *notificationService) List(ctx context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUser(ctx, userUID, unreadOnly, limit)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userUID string) error {
	return s.repo.MarkAllRead(ctx, userUID)
}
