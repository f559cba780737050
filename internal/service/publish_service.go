package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/devmarket/marketplace-backend/internal/metrics"
	"github.com/devmarket/marketplace-backend/internal/repository"
	"github.com/devmarket/marketplace-backend/internal/stripeclient"
	"gorm.io/gorm"
)

var (
	ErrAlreadyPublished  = errors.New("already_published")
	ErrChargesNotEnabled = errors.New("charges_not_enabled")
	ErrExternalService   = errors.New("external_service_error")
)

// PublishService drives the seller onboarding state machine:
// pending -> account created -> link issued -> charges enabled -> published.
type PublishService interface {
	// PublishProduct lazily creates the seller's Stripe Express account,
	// issues an onboarding link and marks the product pending publication.
	PublishProduct(ctx context.Context, productID uint64, sellerUID string) (onboardingURL string, err error)
	// CompleteOnboarding flips the product to published once the
	// account's charges capability is confirmed active.
	CompleteOnboarding(ctx context.Context, productID uint64, sellerUID string) error
}

type publishService struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	stripe      stripeclient.Client
	frontendURL string
	metrics     *metrics.PaymentMetrics
}

func NewPublishService(productRepo repository.ProductRepository, userRepo repository.UserRepository, sc stripeclient.Client, frontendURL string, m *metrics.PaymentMetrics) PublishService {
	return &publishService{
		productRepo: productRepo,
		userRepo:    userRepo,
		stripe:      sc,
		frontendURL: frontendURL,
		metrics:     m,
	}
}

func (s *publishService) PublishProduct(ctx context.Context, productID uint64, sellerUID string) (string, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if product.SellerUID != sellerUID {
		return "", ErrForbidden
	}
	if product.Published {
		return "", ErrAlreadyPublished
	}

	seller, err := s.userRepo.FindByUID(ctx, sellerUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	accountID := ""
	if seller.StripeAccountID != nil {
		accountID = *seller.StripeAccountID
	}
	if accountID == "" {
		accountID, err = s.stripe.CreateAccount(ctx, seller.Email, seller.Country)
		if err != nil {
			// Hard error surfaced to the seller; they retry explicitly.
			log.Printf("publish: account creation failed for %s: %v", sellerUID, err)
			return "", ErrExternalService
		}
		if err := s.userRepo.SetStripeAccountID(ctx, sellerUID, accountID); err != nil {
			return "", err
		}
	}

	refreshURL := fmt.Sprintf("%s/onboarding-refresh.html", s.frontendURL)
	returnURL := fmt.Sprintf("%s/onboarding-return.html?product_id=%d", s.frontendURL, product.ID)
	link, err := s.stripe.CreateAccountLink(ctx, accountID, refreshURL, returnURL)
	if err != nil {
		log.Printf("publish: account link failed for %s: %v", sellerUID, err)
		return "", ErrExternalService
	}

	product.PendingPublication = true
	if err := s.productRepo.Update(ctx, product); err != nil {
		return "", err
	}
	if s.metrics != nil {
		s.metrics.OnboardingLinksTotal.Inc()
	}
	return link, nil
}

func (s *publishService) CompleteOnboarding(ctx context.Context, productID uint64, sellerUID string) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if product.SellerUID != sellerUID {
		return ErrForbidden
	}
	if product.Published {
		return nil
	}

	seller, err := s.userRepo.FindByUID(ctx, sellerUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if seller.StripeAccountID == nil || *seller.StripeAccountID == "" {
		return ErrChargesNotEnabled
	}

	acct, err := s.stripe.GetAccount(ctx, *seller.StripeAccountID)
	if err != nil {
		log.Printf("publish: account fetch failed for %s: %v", sellerUID, err)
		return ErrExternalService
	}
	if !acct.ChargesEnabled {
		return ErrChargesNotEnabled
	}

	product.Published = true
	product.PendingPublication = false
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ProductsPublishedTotal.Inc()
	}
	return nil
}
