package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/optikart/optikart-backend/internal/cron"
	"github.com/optikart/optikart-backend/internal/customers"
	"github.com/optikart/optikart-backend/internal/rfm"
	"github.com/optikart/optikart-backend/internal/segmentation"
	"github.com/optikart/optikart-backend/pkg/config"
	"github.com/optikart/optikart-backend/pkg/db"
	"github.com/optikart/optikart-backend/pkg/logger"
	"github.com/optikart/optikart-backend/pkg/metrics"
	"github.com/optikart/optikart-backend/pkg/migrate"
	"github.com/optikart/optikart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "segmentation-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "segmentation-worker"

	logg = logger.New(logger.Options{
		ServiceName: "segmentation-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	thresholds, err := rfm.NewThresholds(cfg.RFM)
	if err != nil {
		logg.Error(context.Background(), "invalid scoring thresholds", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	jobMetrics := metrics.NewJobMetrics(registry)
	segMetrics := metrics.NewSegmentationMetrics(registry)

	segmentationService, err := segmentation.NewService(
		customers.NewRepository(dbClient.DB(), time.Now),
		redisClient,
		rfm.NewScorer(thresholds),
		segMetrics,
		logg,
		cfg.Segmentation,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create segmentation service", err)
		os.Exit(1)
	}

	snapshotJob, err := cron.NewSnapshotJob(cron.SnapshotJobParams{
		Logger:  logg,
		Service: segmentationService,
		Metrics: segMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create snapshot job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("segmentation-worker", lockEnv(cfg.App.Env)), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(snapshotJob),
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Segmentation.SnapshotInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting segmentation worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "segmentation worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "segmentation worker shutting down gracefully")
}

func lockEnv(env string) string {
	if env == "" {
		return "local"
	}
	return env
}
