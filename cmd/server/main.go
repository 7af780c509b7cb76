package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/irfndi/paragon-ai-go/internal/api"
	"github.com/irfndi/paragon-ai-go/internal/api/handlers"
	"github.com/irfndi/paragon-ai-go/internal/cache"
	"github.com/irfndi/paragon-ai-go/internal/config"
	"github.com/irfndi/paragon-ai-go/internal/database"
	"github.com/irfndi/paragon-ai-go/internal/logging"
	"github.com/irfndi/paragon-ai-go/internal/marketdata"
	"github.com/irfndi/paragon-ai-go/internal/metrics"
	"github.com/irfndi/paragon-ai-go/internal/middleware"
	"github.com/irfndi/paragon-ai-go/internal/ratelimit"
	"github.com/irfndi/paragon-ai-go/internal/reasoning"
	"github.com/irfndi/paragon-ai-go/internal/services"
	"github.com/irfndi/paragon-ai-go/internal/telemetry"
	"github.com/irfndi/paragon-ai-go/pkg/ccxt"
)

const serviceName = "paragon-ai"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional outside development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.Environment)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry first
	tp, err := telemetry.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Failed to shutdown telemetry")
		}
	}()

	// Initialize database
	db, err := database.NewPostgresConnection(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	credits := database.NewCreditRepository(database.NewTracedPool(db.Pool, tp.TracerProvider))
	if err := credits.EnsureSchema(ctx); err != nil {
		return err
	}

	// Initialize Redis
	redis, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redis.Close()

	m := metrics.NewMetrics()

	marketCache := cache.NewRedisMarketCache(redis.Client, cfg.MarketData.CacheTTL, logger)
	upstream, err := newMarketDataProvider(cfg.MarketData, logger)
	if err != nil {
		return err
	}
	provider := marketdata.NewCachedProvider(upstream, marketCache)

	reasoner, breaker := newReasoner(cfg.Reasoning, logger)

	analysisService := services.NewAnalysisService(
		provider,
		reasoner,
		breaker,
		credits,
		m,
		telemetry.NewBusinessTracer(tp.TracerProvider),
		logger,
		services.AnalysisConfig{
			Interval:       cfg.MarketData.Interval,
			Limit:          cfg.MarketData.Limit,
			Params:         cfg.Analysis.Params(),
			CreditsEnabled: cfg.Credits.Enabled,
			CreditCost:     cfg.Credits.CostPerAnalysis,
		},
	)

	warmer := services.NewCacheWarmer(provider, services.CacheWarmerConfig{
		Symbols:  cfg.MarketData.WarmSymbols,
		Interval: cfg.MarketData.Interval,
		Limit:    cfg.MarketData.Limit,
		Schedule: cfg.MarketData.WarmSchedule,
		Timeout:  cfg.MarketData.Timeout,
	}, m, logger)
	if err := warmer.Start(ctx); err != nil {
		return err
	}
	defer warmer.Stop()
	defer marketCache.LogStats()

	limiter := ratelimit.NewRedisLimiter(redis.Client, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)

	var creditLedger handlers.CreditLedger
	var admin *middleware.AdminMiddleware
	if cfg.Credits.Enabled {
		creditLedger = credits
		admin = middleware.NewAdminMiddleware(cfg.Credits.AdminAPIKey)
		if admin == nil {
			logger.Warn("Credits are enabled without credits.admin_api_key; balances can only be granted directly in the database")
		}
	}

	// Setup Gin router
	router := api.NewRouter(api.RouterConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TracerProvider: tp.TracerProvider,
		Logger:         logger,
	})
	api.SetupRoutes(router, api.Handlers{
		Analysis: handlers.NewAnalysisHandler(analysisService, limiter, m, logger),
		Wallet:   handlers.NewWalletHandler(limiter, creditLedger, logger),
		Health:   handlers.NewHealthHandler(db, redis, telemetry.ServiceVersion),
		Admin:    admin,
	}, m)

	// Create HTTP server with security timeouts
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.LogStartup(logger, serviceName, telemetry.ServiceVersion, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}
	logging.LogShutdown(logger, serviceName, "signal received")

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited gracefully")
	return nil
}

// newMarketDataProvider builds the upstream provider named by cfg.Provider.
func newMarketDataProvider(cfg config.MarketDataConfig, logger *logrus.Logger) (marketdata.Provider, error) {
	binanceProvider := func() marketdata.Provider { return marketdata.NewBinanceProvider(cfg.BinanceURL, cfg.Timeout) }
	ccxtProvider := func() marketdata.Provider {
		return marketdata.NewCCXTProvider(ccxt.NewClient(cfg.CCXTURL, cfg.Timeout), cfg.CCXTExchange)
	}

	switch strings.ToLower(cfg.Provider) {
	case "", "binance":
		return binanceProvider(), nil
	case "ccxt":
		return ccxtProvider(), nil
	case "fallback":
		return marketdata.NewFallbackProvider(binanceProvider(), ccxtProvider(), logger), nil
	default:
		return nil, fmt.Errorf("unknown market data provider %q", cfg.Provider)
	}
}

// newReasoner returns nil values when the reasoning service is disabled.
func newReasoner(cfg config.ReasoningConfig, logger *logrus.Logger) (reasoning.Client, *services.CircuitBreaker) {
	if !cfg.Enabled {
		logger.Info("Reasoning service disabled, verdicts come from the rule-based classifier")
		return nil, nil
	}

	breaker := services.NewCircuitBreaker("reasoning", services.CircuitBreakerConfig{
		FailureThreshold: cfg.BreakerFailures,
		Timeout:          cfg.BreakerCooldown,
	}, logger)
	return reasoning.NewOpenAIClient(cfg, logger), breaker
}
