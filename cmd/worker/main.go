package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/aurumworks/aurum/internal/app"
	jobmetrics "github.com/aurumworks/aurum/internal/jobs"
	"github.com/aurumworks/aurum/internal/platform/cache"
	"github.com/aurumworks/aurum/internal/platform/db"
	"github.com/aurumworks/aurum/internal/pricefeed"
	"github.com/aurumworks/aurum/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	priceCache := pricefeed.NewCache(redisClient, cfg.PriceCacheTTL)
	priceService := pricefeed.NewService(
		pricefeed.NewRepository(pool),
		pricefeed.NewHTTPFetcher(cfg.PriceFeedURL),
		priceCache,
		logger,
		cfg.PriceFeedCurrency,
	)

	refreshTask, err := jobs.NewPriceRefreshTask(jobs.PriceRefreshPayload{Trigger: "cron"})
	if err != nil {
		logger.Error("build price refresh task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{{
			Type:    jobs.TaskTypePriceRefresh,
			Handler: jobs.NewPriceRefreshHandler(priceService, jobmetrics.NewMetrics(nil)),
		}},
		Cron: []jobs.CronRegistration{{
			Spec: cfg.PriceFeedCron,
			Task: refreshTask,
		}},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started", slog.String("cron", cfg.PriceFeedCron))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
