package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/devmarket/marketplace-backend/internal/model"
)

func TestProductCreate(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		svc := NewProductService(newFakeProductRepo())

		tests := []struct {
			name       string
			title      string
			desc       string
			category   string
			priceCents int64
		}{
			{"empty title", "", "desc", "tooling", 1000},
			{"blank title", "   ", "desc", "tooling", 1000},
			{"long title", strings.Repeat("a", 256), "desc", "tooling", 1000},
			{"empty description", "Title", "", "tooling", 1000},
			{"empty category", "Title", "desc", "", 1000},
			{"zero price", "Title", "desc", "tooling", 0},
			{"negative price", "Title", "desc", "tooling", -100},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := svc.Create(context.Background(), "seller-1", tt.title, tt.desc, tt.category, "", tt.priceCents); err == nil {
					t.Fatal("want error")
				}
			})
		}
	})

	t.Run("trims and stores", func(t *testing.T) {
		repo := newFakeProductRepo()
		svc := NewProductService(repo)

		p, err := svc.Create(context.Background(), "seller-1", "  CLI toolkit  ", " desc ", " tooling ", "go", 2500)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if p.Title != "CLI toolkit" || p.Category != "tooling" {
			t.Fatalf("not trimmed: %+v", p)
		}
		if p.Published || p.PendingPublication {
			t.Fatal("new products must start unpublished")
		}
		if p.ID == 0 {
			t.Fatal("id not assigned")
		}
	})

	t.Run("seller limit", func(t *testing.T) {
		var existing []*model.Product
		for i := 0; i < maxProductsPerSeller; i++ {
			existing = append(existing, &model.Product{ID: uint64(i + 1), SellerUID: "seller-1", PriceCents: 100})
		}
		svc := NewProductService(newFakeProductRepo(existing...))

		if _, err := svc.Create(context.Background(), "seller-1", "One more", "desc", "tooling", "", 1000); !errors.Is(err, ErrProductLimit) {
			t.Fatalf("err=%v want ErrProductLimit", err)
		}
		// A different seller is unaffected.
		if _, err := svc.Create(context.Background(), "seller-2", "First", "desc", "tooling", "", 1000); err != nil {
			t.Fatalf("other seller blocked: %v", err)
		}
	})
}

func TestProductGet(t *testing.T) {
	svc := NewProductService(newFakeProductRepo(&model.Product{ID: 5, SellerUID: "seller-1", Title: "Kit"}))

	p, err := svc.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Title != "Kit" {
		t.Fatalf("got=%+v", p)
	}

	if _, err := svc.Get(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
}
