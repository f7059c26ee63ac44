package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/optikart/optikart-backend/api/controllers"
	"github.com/optikart/optikart-backend/api/middleware"
	"github.com/optikart/optikart-backend/internal/segmentation"
	"github.com/optikart/optikart-backend/pkg/config"
	"github.com/optikart/optikart-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams carry everything the HTTP surface depends on.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           pinger
	Redis        pinger
	Segmentation *segmentation.Service
	Metrics      prometheus.Gatherer
}

// NewRouter assembles the chi router for the back-office API.
func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	deps := map[string]controllers.Pinger{}
	if params.DB != nil {
		deps["database"] = params.DB
	}
	if params.Redis != nil {
		deps["redis"] = params.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/segmentation", func(r chi.Router) {
		r.Get("/summary", controllers.SegmentationSummary(params.Segmentation, logg))
		r.Get("/segments", controllers.SegmentationSegments(params.Segmentation, logg))
		r.Get("/customers", controllers.SegmentationCustomers(params.Segmentation, logg))
		r.Get("/customers/{customerId}", controllers.SegmentationCustomer(params.Segmentation, logg))
		r.Post("/preview", controllers.SegmentationPreview(params.Segmentation, logg))
	})

	return r
}
