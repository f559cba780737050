package service

import (
	"context"
	"errors"

	"github.com/devmarket/marketplace-backend/internal/model"
	"github.com/devmarket/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

type OrderWithProduct struct {
	Order   model.Order
	Product *model.Product
}

type OrderService interface {
	ListByBuyer(ctx context.Context, buyerUID string) ([]OrderWithProduct, error)
	ListPendingByBuyer(ctx context.Context, buyerUID string) ([]OrderWithProduct, error)
	ListSales(ctx context.Context, sellerUID string) ([]OrderWithProduct, error)
	MarkDelivered(ctx context.Context, orderID uint64, buyerUID string) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) OrderService {
	return &orderService{orderRepo: orderRepo, productRepo: productRepo}
}

func (s *orderService) withProducts(ctx context.Context, orders []model.Order) []OrderWithProduct {
	resp := make([]OrderWithProduct, 0, len(orders))
	for _, o := range orders {
		product, _ := s.productRepo.FindByID(ctx, o.ProductID)
		resp = append(resp, OrderWithProduct{Order: o, Product: product})
	}
	return resp
}

func (s *orderService) ListByBuyer(ctx context.Context, buyerUID string) ([]OrderWithProduct, error) {
	if buyerUID == "" {
		return nil, errors.New("buyer is required")
	}
	orders, err := s.orderRepo.ListByBuyer(ctx, buyerUID)
	if err != nil {
		return nil, err
	}
	return s.withProducts(ctx, orders), nil
}

func (s *orderService) ListPendingByBuyer(ctx context.Context, buyerUID string) ([]OrderWithProduct, error) {
	if buyerUID == "" {
		return nil, errors.New("buyer is required")
	}
	orders, err := s.orderRepo.ListPendingByBuyer(ctx, buyerUID)
	if err != nil {
		return nil, err
	}
	return s.withProducts(ctx, orders), nil
}

func (s *orderService) ListSales(ctx context.Context, sellerUID string) ([]OrderWithProduct, error) {
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	orders, err := s.orderRepo.ListSalesBySeller(ctx, sellerUID)
	if err != nil {
		return nil, err
	}
	return s.withProducts(ctx, orders), nil
}

func (s *orderService) MarkDelivered(ctx context.Context, orderID uint64, buyerUID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.BuyerUID == nil || *order.BuyerUID != buyerUID {
		return nil, ErrForbidden
	}
	if order.Status == model.OrderStatusDelivered {
		return order, nil
	}
	if order.Status != model.OrderStatusPaid {
		return nil, errors.New("order is not paid yet")
	}
	order.Status = model.OrderStatusDelivered
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
