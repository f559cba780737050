package server

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/devmarket/marketplace-backend/internal/config"
	"github.com/devmarket/marketplace-backend/internal/handler"
	"github.com/devmarket/marketplace-backend/internal/metrics"
	appmw "github.com/devmarket/marketplace-backend/internal/middleware"
	"github.com/devmarket/marketplace-backend/internal/repository"
	"github.com/devmarket/marketplace-backend/internal/service"
	"github.com/devmarket/marketplace-backend/internal/storage"
	"github.com/devmarket/marketplace-backend/internal/stripeclient"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type Server struct {
	e *echo.Echo
}

func New(cfg *config.Config, db *gorm.DB, sc stripeclient.Client, store storage.FileStore) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasPrefix(cfg.FrontendURL, u.Scheme+"://"+u.Host) {
				return true, nil
			}
			return false, nil
		},
	}))

	m := metrics.NewPaymentMetrics()

	productRepo := repository.NewProductRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	fileRepo := repository.NewProjectFileRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notifySvc := service.NewNotificationService(notificationRepo)
	productSvc := service.NewProductService(productRepo)
	publishSvc := service.NewPublishService(productRepo, userRepo, sc, cfg.FrontendURL, m)
	paymentSvc := service.NewPaymentService(paymentRepo, productRepo, userRepo, sc, cfg.FrontendURL, cfg.AppFeePercent)
	webhookSvc := service.NewWebhookService(paymentRepo, orderRepo, productRepo, notifySvc, m)
	orderSvc := service.NewOrderService(orderRepo, productRepo)
	wishlistSvc := service.NewWishlistService(wishlistRepo, productRepo)
	ratingSvc := service.NewRatingService(ratingRepo, productRepo)

	productHandler := handler.NewProductHandler(productSvc, publishSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	webhookHandler := handler.NewWebhookHandler(sc, webhookSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	wishlistHandler := handler.NewWishlistHandler(wishlistSvc)
	ratingHandler := handler.NewRatingHandler(ratingSvc)
	notificationHandler := handler.NewNotificationHandler(notifySvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Stripe calls this directly; it authenticates via the signature
	// header, not a bearer token.
	e.POST("/stripe-webhook", webhookHandler.Handle)

	authMw, err := appmw.NewAuthMiddleware(context.Background(), userRepo)
	if err != nil {
		e.Logger.Fatalf("failed to init firebase auth: %v", err)
	}
	requireAuth := authMw.RequireAuth

	api := e.Group("/api")
	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)
	api.GET("/products/:id/ratings", ratingHandler.ListByProduct)

	api.POST("/products", productHandler.Create, requireAuth)
	api.GET("/me/products", productHandler.ListMine, requireAuth)
	api.POST("/products/:id/publish", productHandler.Publish, requireAuth)
	api.GET("/stripe/onboarding/complete", productHandler.CompleteOnboarding, requireAuth)

	api.POST("/create-checkout-session", paymentHandler.CreateCheckoutSession, requireAuth)
	api.POST("/create-payment-intent", paymentHandler.CreatePaymentIntent, requireAuth)
	api.POST("/confirm-payment", paymentHandler.ConfirmPayment, requireAuth)
	api.GET("/payments/:id", paymentHandler.Get, requireAuth)

	api.GET("/me/orders", orderHandler.ListMine, requireAuth)
	api.GET("/me/orders/pending", orderHandler.ListPending, requireAuth)
	api.GET("/me/sales", orderHandler.ListSales, requireAuth)
	api.POST("/orders/:id/deliver", orderHandler.MarkDelivered, requireAuth)

	api.GET("/me/wishlist", wishlistHandler.List, requireAuth)
	api.PUT("/me/wishlist/:productId", wishlistHandler.Add, requireAuth)
	api.DELETE("/me/wishlist/:productId", wishlistHandler.Remove, requireAuth)

	api.POST("/products/:id/ratings", ratingHandler.Create, requireAuth)

	api.GET("/me/notifications", notificationHandler.ListMine, requireAuth)
	api.POST("/me/notifications/read", notificationHandler.MarkAllRead, requireAuth)

	if store != nil {
		fileSvc := service.NewFileService(fileRepo, paymentRepo, productRepo, store)
		fileHandler := handler.NewFileHandler(fileSvc)
		api.POST("/files", fileHandler.Upload, requireAuth)
		api.GET("/products/:id/files", fileHandler.ProductFiles, requireAuth)
	} else {
		log.Printf("storage bucket not configured; file endpoints disabled")
	}

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
