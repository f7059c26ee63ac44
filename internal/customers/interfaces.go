package customers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/optikart/optikart-backend/internal/rfm"
	"github.com/optikart/optikart-backend/pkg/db/models"
	"github.com/optikart/optikart-backend/pkg/pagination"
)

// Repository defines the read surface segmentation runs against. Only
// completed orders count toward a customer's metrics.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	MetricsByID(ctx context.Context, id uuid.UUID) (*rfm.CustomerMetrics, error)
	ListMetrics(ctx context.Context, params pagination.Params) ([]rfm.CustomerMetrics, *pagination.Cursor, error)
	ForEachMetricsBatch(ctx context.Context, batchSize int, fn func(batch []rfm.CustomerMetrics) error) error
	Count(ctx context.Context) (int64, error)
}
