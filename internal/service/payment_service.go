package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/devmarket/marketplace-backend/internal/model"
	"github.com/devmarket/marketplace-backend/internal/repository"
	"github.com/devmarket/marketplace-backend/internal/stripeclient"
	stripe "github.com/stripe/stripe-go/v74"
	"gorm.io/gorm"
)

var (
	ErrVendorNotOnboarded  = errors.New("vendor_not_onboarded")
	ErrPaymentNotSucceeded = errors.New("payment_not_succeeded")
)

type PaymentService interface {
	// CreateCheckoutSession starts a hosted checkout for a published
	// product and returns the opaque session id for the client redirect.
	CreateCheckoutSession(ctx context.Context, productID uint64, buyerUID string) (string, error)
	// CreatePaymentIntent is the direct (non-hosted) flow: it creates
	// the intent plus a local Payment row awaiting confirmation.
	CreatePaymentIntent(ctx context.Context, productID uint64, buyerUID string) (clientSecret string, err error)
	// ConfirmPayment re-checks the intent with Stripe and marks the
	// local Payment on success. The webhook may already have done so.
	ConfirmPayment(ctx context.Context, intentID, buyerUID string) error
	GetPayment(ctx context.Context, id uint64, uid string) (*model.Payment, error)
}

type paymentService struct {
	paymentRepo   repository.PaymentRepository
	productRepo   repository.ProductRepository
	userRepo      repository.UserRepository
	stripe        stripeclient.Client
	frontendURL   string
	appFeePercent int64
}

func NewPaymentService(paymentRepo repository.PaymentRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository, sc stripeclient.Client, frontendURL string, appFeePercent int64) PaymentService {
	return &paymentService{
		paymentRepo:   paymentRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		stripe:        sc,
		frontendURL:   frontendURL,
		appFeePercent: appFeePercent,
	}
}

func (s *paymentService) sellableProduct(ctx context.Context, productID uint64) (*model.Product, string, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	if !product.Published {
		return nil, "", ErrNotFound
	}
	if product.PriceCents <= 0 {
		return nil, "", errors.New("product price must be greater than 0")
	}
	vendor, err := s.userRepo.FindByUID(ctx, product.SellerUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrVendorNotOnboarded
		}
		return nil, "", err
	}
	if vendor.StripeAccountID == nil || *vendor.StripeAccountID == "" {
		return nil, "", ErrVendorNotOnboarded
	}
	return product, *vendor.StripeAccountID, nil
}

func (s *paymentService) feeCents(amountCents int64) int64 {
	return amountCents * s.appFeePercent / 100
}

func (s *paymentService) CreateCheckoutSession(ctx context.Context, productID uint64, buyerUID string) (string, error) {
	product, destAcct, err := s.sellableProduct(ctx, productID)
	if err != nil {
		return "", err
	}
	sessionID, err := s.stripe.CreateCheckoutSession(ctx, stripeclient.CheckoutSessionParams{
		ProductID:       product.ID,
		ProductName:     product.Title,
		AmountCents:     product.PriceCents,
		FeeCents:        s.feeCents(product.PriceCents),
		DestinationAcct: destAcct,
		BuyerUID:        buyerUID,
		SuccessURL:      fmt.Sprintf("%s/payment-success.html?session_id={CHECKOUT_SESSION_ID}", s.frontendURL),
		CancelURL:       fmt.Sprintf("%s/payment-cancel.html", s.frontendURL),
	})
	if err != nil {
		log.Printf("payment: checkout session failed for product %d: %v", productID, err)
		return "", ErrExternalService
	}
	return sessionID, nil
}

func (s *paymentService) CreatePaymentIntent(ctx context.Context, productID uint64, buyerUID string) (string, error) {
	product, destAcct, err := s.sellableProduct(ctx, productID)
	if err != nil {
		return "", err
	}
	intent, err := s.stripe.CreatePaymentIntent(ctx, stripeclient.PaymentIntentParams{
		ProductID:       product.ID,
		AmountCents:     product.PriceCents,
		FeeCents:        s.feeCents(product.PriceCents),
		DestinationAcct: destAcct,
		BuyerUID:        buyerUID,
	})
	if err != nil {
		log.Printf("payment: intent creation failed for product %d: %v", productID, err)
		return "", ErrExternalService
	}

	var buyer *string
	if buyerUID != "" {
		buyer = &buyerUID
	}
	payment := &model.Payment{
		StripePaymentIntentID: intent.ID,
		BuyerUID:              buyer,
		ProductID:             product.ID,
		AmountCents:           product.PriceCents,
		Succeeded:             false,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return "", err
	}
	return intent.ClientSecret, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, intentID, buyerUID string) error {
	payment, err := s.paymentRepo.FindByIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if payment.BuyerUID == nil || *payment.BuyerUID != buyerUID {
		return ErrForbidden
	}
	if payment.Succeeded {
		return nil
	}

	intent, err := s.stripe.GetPaymentIntent(ctx, intentID)
	if err != nil {
		log.Printf("payment: intent fetch failed for %s: %v", intentID, err)
		return ErrExternalService
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return ErrPaymentNotSucceeded
	}

	now := time.Now()
	payment.Succeeded = true
	payment.SucceededAt = &now
	return s.paymentRepo.Update(ctx, payment)
}

func (s *paymentService) GetPayment(ctx context.Context, id uint64, uid string) (*model.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if payment.BuyerUID == nil || *payment.BuyerUID != uid {
		return nil, ErrForbidden
	}
	return payment, nil
}
