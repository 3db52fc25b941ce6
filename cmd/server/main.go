package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"dchanga/internal/app"
	"dchanga/internal/config"
	"dchanga/internal/handler"
	"dchanga/internal/ledger"
	internalRedis "dchanga/internal/redis"
	"dchanga/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()
	log.Printf("Ledger: %s", cfg.Ledger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	store, err := app.NewStore(ctx, cfg, nrApp)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.Store.Backend, err)
	}
	defer store.Close()
	log.Printf("Using %s store", cfg.Store.Backend)

	// Redis is optional; without it the cache and idempotency keys are off
	// and transfers are serialised in-process.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Connected to Redis")
	}

	connector, err := newConnector(cfg)
	if err != nil {
		log.Fatalf("failed to configure ledger: %v", err)
	}

	// Wire dependencies.
	server := wireServer(store, redisClient, connector, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Println("Server exited")
}

// newConnector selects the ledger backend. Missing Hedera credentials are not
// fatal: ledger operations then fail with a configuration error.
func newConnector(cfg *config.Config) (ledger.Connector, error) {
	switch cfg.Ledger.Mode {
	case config.LedgerModeSimulated:
		log.Println("WARNING: using simulated ledger, no value is transferred")
		operator := cfg.Ledger.AccountID
		if operator == "" {
			operator = "0.0.1001"
		}
		return ledger.NewSimulatedConnector(operator, cfg.Ledger.SimulatedBalance), nil
	case config.LedgerModeHedera:
		if !cfg.Ledger.Configured() {
			log.Println("WARNING: Hedera credentials not configured, ledger payments will fail")
		}
		return ledger.NewHederaConnector(cfg.Ledger), nil
	default:
		return nil, fmt.Errorf("unknown ledger mode %q", cfg.Ledger.Mode)
	}
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(store *app.Store, redisClient *redis.Client, connector ledger.Connector, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	var campaignCache internalRedis.CampaignCacheInterface
	var locker service.AccountLocker
	if redisClient != nil {
		campaignCache = internalRedis.NewCacheStore(redisClient, cfg.Redis.CacheTTL)
		locker = internalRedis.NewLockStore(redisClient)
	}

	// Initialize services.
	notificationService := service.NewNotificationService()
	campaignService := service.NewCampaignService(store.Campaigns, campaignCache)
	ledgerService := service.NewLedgerService(connector, locker)
	transactionService := service.NewTransactionService(store.Transactions)
	verificationService := service.NewVerificationService()
	contributionService := service.NewContributionService(service.ContributionServiceConfig{
		Campaigns:        campaignService,
		ContributionRepo: store.Contributions,
		TransactionRepo:  store.Transactions,
		Ledger:           ledgerService,
		Treasury:         service.NewStaticTreasuryResolver(cfg.Payment.Treasuries, cfg.Payment.DefaultTreasury),
		Notifier:         notificationService,
		ExchangeRate:     cfg.Payment.ExchangeRate,
	})

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		CampaignHandler:     handler.NewCampaignHandler(campaignService, transactionService),
		ContributionHandler: handler.NewContributionHandler(contributionService),
		LedgerHandler:       handler.NewLedgerHandler(ledgerService),
		TransactionHandler:  handler.NewTransactionHandler(transactionService),
		VerificationHandler: handler.NewVerificationHandler(verificationService),
		RedisClient:         redisClient,
		NewRelicApp:         nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
