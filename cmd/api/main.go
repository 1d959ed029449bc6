package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camvault/dealer-ledger/internal/config"
	"github.com/camvault/dealer-ledger/internal/delivery/events"
	httpDelivery "github.com/camvault/dealer-ledger/internal/delivery/http"
	"github.com/camvault/dealer-ledger/internal/delivery/http/handler"
	"github.com/camvault/dealer-ledger/internal/payment"
	"github.com/camvault/dealer-ledger/internal/pkg/cache"
	"github.com/camvault/dealer-ledger/internal/pkg/database"
	"github.com/camvault/dealer-ledger/internal/pkg/logger"
	cacheRepo "github.com/camvault/dealer-ledger/internal/repository/cache"
	"github.com/camvault/dealer-ledger/internal/repository/postgres"
	"github.com/camvault/dealer-ledger/internal/usecase/catalog"
	"github.com/camvault/dealer-ledger/internal/usecase/ledger"
	"github.com/camvault/dealer-ledger/internal/usecase/pricehistory"

	_ "github.com/camvault/dealer-ledger/docs"
)

// @title Dealer Ledger API
// @version 1.0
// @description Dealer pricing catalog, price history audit trail and dealer transaction ledger.

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @tag.name Products
// @tag.description Catalog and pricing endpoints

// @tag.name Dealers
// @tag.description Dealer transactions, stats and inventory

// @tag.name Transactions
// @tag.description Payment verification and cancellation

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.NewWithLevel(cfg.Env, cfg.LogLevel)
	logger.SetGlobalLogger(appLogger)
	appLogger.Info("Starting Dealer Ledger API...")

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStartup()

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(startupCtx, cfg, appLogger, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL successfully")

	if err := database.RunMigrations(startupCtx, db, cfg.Database.MigrationsDir, appLogger); err != nil {
		appLogger.Fatal("Failed to run migrations", err)
	}

	appLogger.Info("Connecting to Redis...")
	redisClient, err := cache.WaitForRedis(startupCtx, cfg, appLogger, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis successfully")

	appLogger.Info("Connecting to NATS...")
	publisher, err := events.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS publisher", err)
	}
	defer publisher.Close()

	// the stream must exist before the first publish or events are dropped
	if err := events.NewStreamConfig(publisher.JetStream(), appLogger).EnsureStream(); err != nil {
		appLogger.Fatal("Failed to ensure JetStream stream", err)
	}

	repos := postgres.NewRepositories(db)
	txRunner := postgres.NewTxRunner(db)
	redisCache := cacheRepo.NewRedisCache(redisClient, cfg.Cache.DealerStatsTTL)
	locker := cacheRepo.NewRedisLocker(redisClient, cfg.Upload.LockTTL)

	if cfg.Payment.KeySecret == "" {
		appLogger.Warn("RAZORPAY_KEY_SECRET is empty, every payment proof will be rejected")
	}

	recorder := pricehistory.NewRecorder(repos.PriceHistory, appLogger)
	catalogService := catalog.NewService(repos.Products, txRunner, recorder, publisher, locker, appLogger)
	ledgerService := ledger.NewService(
		repos,
		txRunner,
		payment.NewVerifier(cfg.Payment.KeySecret),
		redisCache,
		publisher,
		ledger.CODTerms{
			AdvancePercent: cfg.COD.AdvancePercent,
			Surcharge:      cfg.COD.Surcharge,
		},
		appLogger,
	)

	productHandler := handler.NewProductHandler(catalogService, cfg.Upload.MaxBytes, appLogger)
	dealerHandler := handler.NewDealerHandler(ledgerService, appLogger)
	transactionHandler := handler.NewTransactionHandler(ledgerService, appLogger)

	router := httpDelivery.NewRouter(productHandler, dealerHandler, transactionHandler, cfg, appLogger)
	httpHandler := router.Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	appLogger.Info("Server stopped gracefully")
}
