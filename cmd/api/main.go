package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/optikart/optikart-backend/api/routes"
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
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Segmentation: segmentationService,
			Metrics:      registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
