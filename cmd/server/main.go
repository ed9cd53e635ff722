package main

import (
	"fmt"
	"log"
	"net/http"

	"ddsync/internal/api"
	"ddsync/internal/api/handlers"
	"ddsync/internal/api/middleware"
	"ddsync/internal/engine/checkout"
	"ddsync/internal/engine/webhook"
	"ddsync/internal/gocardless"
	"ddsync/internal/pkg/logger"
	"ddsync/internal/platform/auth"
	"ddsync/internal/platform/config"
	"ddsync/internal/platform/database"
	"ddsync/internal/platform/repositories"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Repositories
	billing := repositories.NewBilling(db)
	deliveries := repositories.NewDeliveryRepository(db)
	sessions := repositories.NewSessionRepository(db)

	// Provider clients, one per processor mode
	liveClient := gocardless.NewClient(cfg.GoCardless.Live)
	sandboxClient := gocardless.NewClient(cfg.GoCardless.Sandbox)

	// Services
	liveProcessor := webhook.NewProcessor(liveClient, billing, deliveries, false)
	sandboxProcessor := webhook.NewProcessor(sandboxClient, billing, deliveries, true)
	checkoutSvc := checkout.NewService(liveClient, sandboxClient, billing, sessions, cfg.Checkout)
	tokenSvc := auth.NewTokenService(cfg.JWT)

	// Handlers
	webhookHandler := handlers.NewWebhookHandler(
		liveProcessor, sandboxProcessor,
		cfg.GoCardless.Live.WebhookSecret, cfg.GoCardless.Sandbox.WebhookSecret,
	)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutSvc)
	authHandler := handlers.NewAuthHandler(cfg.Admin, tokenSvc)
	billingHandler := handlers.NewBillingHandler(billing, deliveries)
	healthHandler := handlers.NewHealthHandler(db)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)

	// Router
	deps := &api.Dependencies{
		WebhookHandler:  webhookHandler,
		CheckoutHandler: checkoutHandler,
		AuthHandler:     authHandler,
		BillingHandler:  billingHandler,
		HealthHandler:   healthHandler,
		AuthMiddleware:  authMiddleware,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
