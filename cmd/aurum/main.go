package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/aurumworks/aurum/internal/app"
	"github.com/aurumworks/aurum/internal/auth"
	"github.com/aurumworks/aurum/internal/catalog"
	"github.com/aurumworks/aurum/internal/customers"
	"github.com/aurumworks/aurum/internal/observability"
	"github.com/aurumworks/aurum/internal/platform/cache"
	"github.com/aurumworks/aurum/internal/platform/db"
	"github.com/aurumworks/aurum/internal/pricefeed"
	"github.com/aurumworks/aurum/internal/quotes"
	"github.com/aurumworks/aurum/internal/settings"
	"github.com/aurumworks/aurum/jobs"
	"github.com/aurumworks/aurum/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, price cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	metrics := observability.NewMetrics()
	tokenGate := auth.NewTokenGate(cfg.AdminTokenHash)

	settingsService := settings.NewService(settings.NewRepository(pool), logger)
	settingsHandler := settings.NewHandler(logger, settingsService)

	customersService := customers.NewService(customers.NewRepository(pool))
	customersHandler := customers.NewHandler(logger, customersService)

	catalogService := catalog.NewService(catalog.NewRepository(pool))
	catalogHandler := catalog.NewHandler(logger, catalogService)

	quotesService := quotes.NewService(quotes.NewRepository(pool), customersService, settingsService)
	quotesHandler := quotes.NewHandler(logger, quotesService)

	priceCache := pricefeed.NewCache(redisClient, cfg.PriceCacheTTL)
	priceService := pricefeed.NewService(
		pricefeed.NewRepository(pool),
		pricefeed.NewHTTPFetcher(cfg.PriceFeedURL),
		priceCache,
		logger,
		cfg.PriceFeedCurrency,
	)
	priceHandler := pricefeed.NewHandler(logger, priceService)

	pdfClient := report.NewClient(cfg.GotenbergURL)
	reportHandler := report.NewHandler(logger, quotesService, customersService,
		settingsService, pdfClient, cfg.PriceFeedCurrency)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(asynq.NewInspector(redisOpts), jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		TokenGate:        tokenGate,
		QuotesHandler:    quotesHandler,
		CustomersHandler: customersHandler,
		CatalogHandler:   catalogHandler,
		SettingsHandler:  settingsHandler,
		PriceHandler:     priceHandler,
		ReportHandler:    reportHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
