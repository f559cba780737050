package main

import (
	"context"
	"log"

	"github.com/devmarket/marketplace-backend/internal/config"
	"github.com/devmarket/marketplace-backend/internal/db"
	"github.com/devmarket/marketplace-backend/internal/model"
	"github.com/devmarket/marketplace-backend/internal/server"
	"github.com/devmarket/marketplace-backend/internal/storage"
	"github.com/devmarket/marketplace-backend/internal/stripeclient"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := conn.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Payment{},
		&model.Order{},
		&model.ProjectFile{},
		&model.WishlistEntry{},
		&model.Rating{},
		&model.Notification{},
	); err != nil {
		log.Printf("auto migrate error: %v", err)
	}

	sc := stripeclient.New(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	var store storage.FileStore
	if cfg.StorageBucket != "" {
		store, err = storage.New(context.Background(), cfg.StorageBucket)
		if err != nil {
			log.Fatalf("storage init error: %v", err)
		}
		defer store.Close()
	}

	srv := server.New(cfg, conn, sc, store)

	addr := ":" + cfg.Port
	log.Printf("starting server on %s", addr)
	if err := srv.Start(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
