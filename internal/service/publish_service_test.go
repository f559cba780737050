package service

import (
	"context"
	"errors"
	"testing"

	"github.com/devmarket/marketplace-backend/internal/model"
)

func TestPublishProduct(t *testing.T) {
	newFixture := func(stripe *fakeStripe, product *model.Product, seller *model.User) (PublishService, *fakeProductRepo, *fakeUserRepo) {
		products := newFakeProductRepo(product)
		users := newFakeUserRepo(seller)
		svc := NewPublishService(products, users, stripe, "https://market.example", nil)
		return svc, products, users
	}

	t.Run("creates account and link on first publish", func(t *testing.T) {
		product := &model.Product{ID: 1, SellerUID: "seller-1", Title: "Parser kit", PriceCents: 1000}
		seller := &model.User{UID: "seller-1", Email: "s@example.com", Country: "PT"}
		stripe := &fakeStripe{accountID: "acct_1", linkURL: "https://connect.stripe.com/setup/x"}
		svc, products, users := newFixture(stripe, product, seller)

		url, err := svc.PublishProduct(context.Background(), 1, "seller-1")
		if err != nil {
			t.Fatalf("PublishProduct: %v", err)
		}
		if url != "https://connect.stripe.com/setup/x" {
			t.Fatalf("url=%q", url)
		}

		u, _ := users.FindByUID(context.Background(), "seller-1")
		if u.StripeAccountID == nil || *u.StripeAccountID != "acct_1" {
			t.Fatalf("account id not stored: %v", u.StripeAccountID)
		}
		p, _ := products.FindByID(context.Background(), 1)
		if !p.PendingPublication || p.Published {
			t.Fatalf("state wrong after publish: %+v", p)
		}
	})

	t.Run("reuses existing account", func(t *testing.T) {
		acct := "acct_existing"
		product := &model.Product{ID: 1, SellerUID: "seller-1", PriceCents: 1000}
		seller := &model.User{UID: "seller-1", Email: "s@example.com", StripeAccountID: &acct}
		// CreateAccount would fail; it must not be called.
		stripe := &fakeStripe{createAccountErr: errors.New("boom"), linkURL: "https://connect.stripe.com/setup/y"}
		svc, _, users := newFixture(stripe, product, seller)

		url, err := svc.PublishProduct(context.Background(), 1, "seller-1")
		if err != nil {
			t.Fatalf("PublishProduct: %v", err)
		}
		if url == "" {
			t.Fatal("no link returned")
		}
		u, _ := users.FindByUID(context.Background(), "seller-1")
		if *u.StripeAccountID != acct {
			t.Fatalf("account id rewritten to %q", *u.StripeAccountID)
		}
	})

	t.Run("already published", func(t *testing.T) {
		product := &model.Product{ID: 1, SellerUID: "seller-1", Published: true}
		seller := &model.User{UID: "seller-1"}
		svc, products, _ := newFixture(&fakeStripe{}, product, seller)

		if _, err := svc.PublishProduct(context.Background(), 1, "seller-1"); !errors.Is(err, ErrAlreadyPublished) {
			t.Fatalf("err=%v want ErrAlreadyPublished", err)
		}
		p, _ := products.FindByID(context.Background(), 1)
		if p.PendingPublication {
			t.Fatal("state changed on conflict")
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		product := &model.Product{ID: 1, SellerUID: "seller-1"}
		svc, _, _ := newFixture(&fakeStripe{}, product, &model.User{UID: "seller-1"})

		if _, err := svc.PublishProduct(context.Background(), 1, "someone-else"); !errors.Is(err, ErrForbidden) {
			t.Fatalf("err=%v want ErrForbidden", err)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, _, _ := newFixture(&fakeStripe{}, &model.Product{ID: 1, SellerUID: "seller-1"}, &model.User{UID: "seller-1"})

		if _, err := svc.PublishProduct(context.Background(), 99, "seller-1"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err=%v want ErrNotFound", err)
		}
	})

	t.Run("account creation fails", func(t *testing.T) {
		product := &model.Product{ID: 1, SellerUID: "seller-1", PriceCents: 1000}
		seller := &model.User{UID: "seller-1", Email: "s@example.com"}
		stripe := &fakeStripe{createAccountErr: errors.New("stripe down")}
		svc, products, users := newFixture(stripe, product, seller)

		if _, err := svc.PublishProduct(context.Background(), 1, "seller-1"); !errors.Is(err, ErrExternalService) {
			t.Fatalf("err=%v want ErrExternalService", err)
		}
		u, _ := users.FindByUID(context.Background(), "seller-1")
		if u.StripeAccountID != nil {
			t.Fatal("account id stored despite failure")
		}
		p, _ := products.FindByID(context.Background(), 1)
		if p.PendingPublication {
			t.Fatal("product marked pending despite failure")
		}
	})
}

func TestCompleteOnboarding(t *testing.T) {
	acct := "acct_1"

	newFixture := func(stripe *fakeStripe, product *model.Product) (PublishService, *fakeProductRepo) {
		seller := &model.User{UID: "seller-1", StripeAccountID: &acct}
		products := newFakeProductRepo(product)
		svc := NewPublishService(products, newFakeUserRepo(seller), stripe, "https://market.example", nil)
		return svc, products
	}

	t.Run("charges enabled publishes", func(t *testing.T) {
		product := &model.Product{ID: 1, SellerUID: "seller-1", PendingPublication: true}
		svc, products := newFixture(&fakeStripe{chargesEnabled: true}, product)

		if err := svc.CompleteOnboarding(context.Background(), 1, "seller-1"); err != nil {
			t.Fatalf("CompleteOnboarding: %v", err)
		}
		p, _ := products.FindByID(context.Background(), 1)
		if !p.Published || p.PendingPublication {
			t.Fatalf("state wrong: %+v", p)
		}
	})

	t.Run("charges not enabled refuses", func(t *testing.T) {
		product := &model.Product{ID: 1, SellerUID: "seller-1", PendingPublication: true}
		svc, products := newFixture(&fakeStripe{chargesEnabled: false}, product)

		if err := svc.CompleteOnboarding(context.Background(), 1, "seller-1"); !errors.Is(err, ErrChargesNotEnabled) {
			t.Fatalf("err=%v want ErrChargesNotEnabled", err)
		}
		p, _ := products.FindByID(context.Background(), 1)
		if p.Published || !p.PendingPublication {
			t.Fatalf("state changed: %+v", p)
		}
	})

	t.Run("seller without account refuses", func(t *testing.T) {
		product := &model.Product{ID: 1, SellerUID: "seller-1", PendingPublication: true}
		products := newFakeProductRepo(product)
		svc := NewPublishService(products, newFakeUserRepo(&model.User{UID: "seller-1"}), &fakeStripe{chargesEnabled: true}, "https://market.example", nil)

		if err := svc.CompleteOnboarding(context.Background(), 1, "seller-1"); !errors.Is(err, ErrChargesNotEnabled) {
			t.Fatalf("err=%v want ErrChargesNotEnabled", err)
		}
	})

	t.Run("already published is a no-op", func(t *testing.T) {
		product := &model.Product{ID: 1, SellerUID: "seller-1", Published: true}
		svc, _ := newFixture(&fakeStripe{getAccountErr: errors.New("must not be called")}, product)

		if err := svc.CompleteOnboarding(context.Background(), 1, "seller-1"); err != nil {
			t.Fatalf("CompleteOnboarding: %v", err)
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		product := &model.Product{ID: 1, SellerUID: "seller-1", PendingPublication: true}
		svc, _ := newFixture(&fakeStripe{chargesEnabled: true}, product)

		if err := svc.CompleteOnboarding(context.Background(), 1, "someone-else"); !errors.Is(err, ErrForbidden) {
			t.Fatalf("err=%v want ErrForbidden", err)
		}
	})
}
