package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/weaveai/weaveai-backend/api/controllers"
	"github.com/weaveai/weaveai-backend/api/routes"
	"github.com/weaveai/weaveai-backend/internal/basket"
	"github.com/weaveai/weaveai-backend/internal/clustering"
	"github.com/weaveai/weaveai-backend/internal/forecast"
	"github.com/weaveai/weaveai-backend/internal/narrative"
	"github.com/weaveai/weaveai-backend/internal/pipeline"
	"github.com/weaveai/weaveai-backend/internal/reviews"
	"github.com/weaveai/weaveai-backend/internal/runs"
	"github.com/weaveai/weaveai-backend/pkg/config"
	"github.com/weaveai/weaveai-backend/pkg/db"
	"github.com/weaveai/weaveai-backend/pkg/logger"
	"github.com/weaveai/weaveai-backend/pkg/metrics"
	"github.com/weaveai/weaveai-backend/pkg/redis"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pipelineMetrics := metrics.NewPipelineMetrics(registry)

	pingers := map[string]controllers.Pinger{}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		pingers["redis"] = redisClient
	}

	var runsService runs.Service
	if cfg.DB.Enabled() {
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
		pingers["db"] = dbClient

		runsService, err = runs.NewService(dbClient, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create run history store", err)
			os.Exit(1)
		}
	}

	clusteringService := clustering.NewService(cfg.Pipeline, logg)
	basketService := basket.NewService(cfg.Pipeline, logg)
	forecastService := forecast.NewService(cfg.Pipeline, logg)
	reviewsService := reviews.NewService(logg)

	var recorder pipeline.Recorder
	if runsService != nil {
		recorder = runsService
	}
	pipelineService, err := pipeline.NewService(
		clusteringService,
		basketService,
		forecastService,
		pipelineMetrics,
		recorder,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create pipeline", err)
		os.Exit(1)
	}

	var narrativeService narrative.Service
	if cfg.Ark.Enabled() {
		narrativeService, err = narrative.NewService(cfg.Ark, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create report generator", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "ark api key not set, report endpoints disabled")
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
		Handler: routes.NewRouter(cfg, logg, routes.Services{
			Clustering: clusteringService,
			Basket:     basketService,
			Forecast:   forecastService,
			Reviews:    reviewsService,
			Pipeline:   pipelineService,
			Narrative:  narrativeService,
			Runs:       runsService,
			Redis:      redisClient,
			Pingers:    pingers,
			Registry:   registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
