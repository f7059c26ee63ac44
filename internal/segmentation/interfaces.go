package segmentation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/optikart/optikart-backend/internal/rfm"
	"github.com/optikart/optikart-backend/pkg/db/models"
	"github.com/optikart/optikart-backend/pkg/pagination"
)

// metricsSource is the slice of the customers repository the service needs.
type metricsSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	MetricsByID(ctx context.Context, id uuid.UUID) (*rfm.CustomerMetrics, error)
	ListMetrics(ctx context.Context, params pagination.Params) ([]rfm.CustomerMetrics, *pagination.Cursor, error)
	ForEachMetricsBatch(ctx context.Context, batchSize int, fn func(batch []rfm.CustomerMetrics) error) error
}

// summaryCache is the slice of the Redis client used for summary storage.
type summaryCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}
