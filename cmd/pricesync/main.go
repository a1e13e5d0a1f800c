package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmassist/internal/clients"
	"farmassist/internal/config"
	"farmassist/internal/repository"
	"farmassist/internal/services"
	"farmassist/pkg/database"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

func main() {
	// Parse command-line flags
	once := flag.Bool("once", false, "Run a single sync and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.NewStructuredLogger("farmassist-pricesync", "1.0.0", logging.ParseLevel(cfg.Logging.Level))

	ctx := context.Background()
	logger.Info(ctx, "[PRICESYNC_START] Starting mandi price sync worker", logging.Fields{
		"version":       "1.0.0",
		"sync_interval": cfg.Market.SyncInterval.String(),
		"once":          *once,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("farmassist_pricesync")

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
		logger.Fatal(ctx, "[PRICESYNC_ERROR] Failed to connect to database", logging.Fields{}, err)
	}
	defer db.Close()

	// Initialize repository and client
	marketRepo := repository.NewMarketRepository(db, logger, metricsCollector)
	mandiClient := clients.NewMandiClient(clients.MandiConfig{
		BaseURL: cfg.Market.APIBaseURL,
		APIKey:  cfg.Market.APIKey,
		Timeout: 30 * time.Second,
	}, logger, metricsCollector)

	marketService := services.NewMarketService(marketRepo, mandiClient, nil, cfg.Market.CacheTTL, logger, metricsCollector)

	runSync := func() {
		records, err := marketService.SyncPrices(ctx)
		if err != nil {
			logger.Error(ctx, "[PRICESYNC_FAILED] Price sync failed", logging.Fields{
				"records_stored": records,
			}, err)
			return
		}
		logger.Info(ctx, "[PRICESYNC_OK] Price sync finished", logging.Fields{
			"records_stored": records,
		})
	}

	runSync()
	if *once {
		return
	}

	ticker := time.NewTicker(cfg.Market.SyncInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			runSync()
		case <-quit:
			logger.Info(ctx, "[PRICESYNC_STOP] Shutting down price sync worker", logging.Fields{})
			return
		}
	}
}
