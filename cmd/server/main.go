package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"farmassist/internal/auth"
	"farmassist/internal/clients"
	"farmassist/internal/config"
	"farmassist/internal/handlers"
	"farmassist/internal/recommend"
	"farmassist/internal/repository"
	"farmassist/internal/services"
	"farmassist/pkg/cache"
	"farmassist/pkg/database"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.NewStructuredLogger("farmassist-api", "1.0.0", logging.ParseLevel(cfg.Logging.Level))

	ctx := context.Background()
	logger.Info(ctx, "[STARTUP] Starting farmassist API server", logging.Fields{
		"version":     "1.0.0",
		"server_host": cfg.Server.Host,
		"server_port": cfg.Server.Port,
		"db_host":     cfg.Database.Host,
		"db_name":     cfg.Database.Database,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("farmassist")

	// Initialize database
	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}

	db, err := database.NewPostgresDB(dbConfig, logger, metricsCollector)
	if err != nil {
		logger.Fatal(ctx, "[STARTUP_ERROR] Failed to connect to database", logging.Fields{}, err)
	}
	defer db.Close()

	// Initialize cache. The platform runs without Redis; quotes just skip
	// the cache layer.
	var priceCache *cache.Cache
	if cfg.Redis.Enabled {
		priceCache, err = cache.New(cache.Config{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, "market", logger, metricsCollector)
		if err != nil {
			logger.Warn(ctx, "[STARTUP] Redis unavailable, continuing without cache", logging.Fields{
				"address": cfg.Redis.Address,
			})
			priceCache = nil
		}
	}

	// Initialize recommendation engines
	cropEngine := recommend.NewCropEngine(
		filepath.Join(cfg.Models.Dir, cfg.Models.CropFile), logger, metricsCollector)
	fertilizerEngine := recommend.NewFertilizerEngine(
		filepath.Join(cfg.Models.Dir, cfg.Models.FertilizerFile), logger, metricsCollector)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, logger, metricsCollector)
	recommendationRepo := repository.NewRecommendationRepository(db, logger, metricsCollector)
	growingRepo := repository.NewGrowingRepository(db, logger, metricsCollector)
	equipmentRepo := repository.NewEquipmentRepository(db, logger, metricsCollector)
	marketRepo := repository.NewMarketRepository(db, logger, metricsCollector)

	// Initialize upstream client
	mandiClient := clients.NewMandiClient(clients.MandiConfig{
		BaseURL: cfg.Market.APIBaseURL,
		APIKey:  cfg.Market.APIKey,
		Timeout: 30 * time.Second,
	}, logger, metricsCollector)

	// Initialize services
	recommendationService := services.NewRecommendationService(cropEngine, fertilizerEngine, recommendationRepo, logger, metricsCollector)
	growingService := services.NewGrowingService(growingRepo, logger, metricsCollector)
	marketService := services.NewMarketService(marketRepo, mandiClient, priceCache, cfg.Market.CacheTTL, logger, metricsCollector)
	dashboardService := services.NewDashboardService(userRepo, recommendationRepo, growingRepo, logger, metricsCollector)
	reportService := services.NewReportService(userRepo, recommendationRepo, growingRepo, marketRepo, logger, metricsCollector)
	equipmentService := services.NewEquipmentService(equipmentRepo, logger, metricsCollector)

	// Initialize auth
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, tokenManager, logger, metricsCollector)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService, logger, metricsCollector)
	growingHandler := handlers.NewGrowingHandler(growingService, logger, metricsCollector)
	marketHandler := handlers.NewMarketHandler(marketService, logger, metricsCollector)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, reportService, logger, metricsCollector)
	equipmentHandler := handlers.NewEquipmentHandler(equipmentService, logger, metricsCollector)
	healthHandler := handlers.NewHealthHandler(userRepo, logger, metricsCollector)

	// Setup router with an authenticated subrouter
	router := mux.NewRouter()
	protected := router.NewRoute().Subrouter()
	protected.Use(auth.Middleware(tokenManager, logger))

	// Register routes
	authHandler.RegisterRoutes(router, protected)
	recommendationHandler.RegisterRoutes(router, protected)
	growingHandler.RegisterRoutes(router, protected)
	marketHandler.RegisterRoutes(router)
	dashboardHandler.RegisterRoutes(protected)
	equipmentHandler.RegisterRoutes(router, protected)
	healthHandler.RegisterRoutes(router)

	// API documentation
	router.HandleFunc("/api/docs/openapi.json", handlers.OpenAPISpec).Methods("GET")
	router.HandleFunc("/api/docs", handlers.SwaggerUI).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info(ctx, "[SERVER_START] HTTP server listening", logging.Fields{
			"address": server.Addr,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "[SERVER_ERROR] Server failed", logging.Fields{}, err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "[SHUTDOWN] Shutting down server...", logging.Fields{})

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "[SHUTDOWN_ERROR] Server forced to shutdown", logging.Fields{}, err)
	}

	if priceCache != nil {
		priceCache.Close()
	}

	logger.Info(ctx, "[SHUTDOWN_COMPLETE] Server stopped", logging.Fields{})
}
