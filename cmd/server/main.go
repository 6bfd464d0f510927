package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aptify/api/internal/config"
	"github.com/aptify/api/internal/database"
	"github.com/aptify/api/internal/handler"
	"github.com/aptify/api/internal/middleware"
	"github.com/aptify/api/internal/model"
	"github.com/aptify/api/internal/repository"
	"github.com/aptify/api/internal/service"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize repositories; one request repository per kind
	requestRepos := make(map[model.Kind]service.RequestRepository)
	for _, kind := range model.Kinds() {
		kindCfg, _ := model.ConfigForKind(kind)
		requestRepos[kind] = repository.NewRequestRepository(db, kindCfg)
	}
	providerRepo := repository.NewProviderRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	notificationService := service.NewNotificationService(service.NotificationServiceConfig{
		NotificationRepo: notificationRepo,
	})

	channelService := service.NewChannelService(service.ChannelServiceConfig{
		ChannelRepo: channelRepo,
	})

	fanout := service.NewFanoutCoordinator(service.FanoutCoordinatorConfig{
		Sender:        notificationService,
		Providers:     providerRepo,
		MaxConcurrent: cfg.Notifications.MaxConcurrent,
	})

	lifecycleService := service.NewLifecycleService(service.LifecycleServiceConfig{
		Repos:    requestRepos,
		Channels: channelService,
		Fanout:   fanout,
		Store:    db,
	})

	// Initialize rate limiter and idempotency store
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   cfg.RateLimit.Rate,
		Window: cfg.RateLimit.Window,
		Burst:  cfg.RateLimit.Burst,
	})
	defer rateLimiter.Stop()

	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL:     cfg.Notifications.IdempotencyTTL,
		Cleanup: time.Hour,
	})
	defer idempotencyStore.Stop()

	// Initialize handlers
	requestHandler := handler.NewRequestHandler(lifecycleService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	healthHandler := handler.NewHealthHandler(db)

	// Create router and register routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Health)

	// Request lifecycle endpoints
	mux.HandleFunc("POST /v1/requests/{kind}", requestHandler.Create)
	mux.HandleFunc("GET /v1/requests/{kind}", requestHandler.List)
	mux.HandleFunc("GET /v1/requests/{kind}/{id}", requestHandler.GetByID)
	mux.HandleFunc("PATCH /v1/requests/{kind}/{id}/status", requestHandler.UpdateStatus)

	// Notification inbox endpoints
	mux.HandleFunc("GET /v1/notifications", notificationHandler.List)
	mux.HandleFunc("PATCH /v1/notifications/{id}/read", notificationHandler.MarkRead)

	// Administrative endpoints
	mux.HandleFunc("GET /v1/admin/requests/{kind}", requestHandler.ListAll)
	mux.HandleFunc("DELETE /v1/admin/requests/{kind}/{id}", requestHandler.Delete)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Identity,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Idempotency(idempotencyStore),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
