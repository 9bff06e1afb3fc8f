package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weaveai/weaveai-backend/api/controllers"
	"github.com/weaveai/weaveai-backend/api/middleware"
	"github.com/weaveai/weaveai-backend/internal/basket"
	"github.com/weaveai/weaveai-backend/internal/clustering"
	"github.com/weaveai/weaveai-backend/internal/forecast"
	"github.com/weaveai/weaveai-backend/internal/narrative"
	"github.com/weaveai/weaveai-backend/internal/pipeline"
	"github.com/weaveai/weaveai-backend/internal/reviews"
	"github.com/weaveai/weaveai-backend/internal/runs"
	"github.com/weaveai/weaveai-backend/pkg/config"
	"github.com/weaveai/weaveai-backend/pkg/logger"
	"github.com/weaveai/weaveai-backend/pkg/redis"
)

// Services bundles everything the router mounts. Narrative and Runs may be
// nil when their backing dependency is not configured; Pingers feed the
// readiness check.
type Services struct {
	Clustering clustering.Service
	Basket     basket.Service
	Forecast   forecast.Service
	Reviews    reviews.Service
	Pipeline   pipeline.Service
	Narrative  narrative.Service
	Runs       runs.Service

	Redis    *redis.Client
	Pingers  map[string]controllers.Pinger
	Registry *prometheus.Registry
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svcs Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	uploadPolicy := middleware.NewUploadRateLimitPolicy(
		cfg.RateLimit.UploadWindow,
		cfg.RateLimit.UploadIPLimit,
	)
	uploadLimiter := func(next http.Handler) http.Handler { return next }
	if svcs.Redis != nil {
		uploadLimiter = middleware.UploadRateLimit(uploadPolicy, svcs.Redis, logg)
	}

	r.Get("/", controllers.Root())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, svcs.Pingers))
	})

	if svcs.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(svcs.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/data", func(r chi.Router) {
		r.Use(uploadLimiter)
		r.Post("/forecast-sales", controllers.ForecastSales(svcs.Forecast, cfg.Upload, logg))
		r.Post("/product-clustering", controllers.ProductClustering(svcs.Clustering, cfg.Upload, logg))
		r.Post("/basket-analysis", controllers.BasketAnalysis(svcs.Basket, cfg.Upload, logg))
		r.Post("/sentiment-analysis", controllers.SentimentAnalysis(svcs.Reviews, cfg.Upload, logg))
		r.Post("/full-report", controllers.FullReport(svcs.Pipeline, cfg.Upload, logg))
	})

	r.Route("/api/v1/reports", func(r chi.Router) {
		r.Post("/market-insight", controllers.MarketInsight(svcs.Narrative, logg))
		r.Post("/action-plan", controllers.ActionPlan(svcs.Narrative, logg))
		r.Post("/review-summary", controllers.ReviewSummary(svcs.Narrative, logg))
	})

	r.Get("/api/v1/runs", controllers.RunHistory(svcs.Runs, logg))

	return r
}
