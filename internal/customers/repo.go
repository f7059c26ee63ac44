package customers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/optikart/optikart-backend/internal/rfm"
	"github.com/optikart/optikart-backend/pkg/db/models"
	"github.com/optikart/optikart-backend/pkg/enums"
	"github.com/optikart/optikart-backend/pkg/pagination"
)

type repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository builds a customers repository bound to the provided DB. The
// clock is injectable so recency math is deterministic under test.
func NewRepository(db *gorm.DB, now func() time.Time) Repository {
	if now == nil {
		now = time.Now
	}
	return &repository{db: db, now: now}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx, now: r.now}
}

// metricsRow is the raw aggregate shape scanned from the join before recency
// is derived against the clock.
type metricsRow struct {
	CustomerID     uuid.UUID
	CreatedAt      time.Time
	LastPurchaseAt *time.Time
	TotalOrders    int64
	TotalSpend     decimal.Decimal
}

func (r *repository) metricsQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Select(`customers.id AS customer_id,
customers.created_at AS created_at,
MAX(orders.placed_at) AS last_purchase_at,
COUNT(orders.id) AS total_orders,
COALESCE(SUM(orders.total_amount), 0) AS total_spend`).
		Joins("LEFT JOIN orders ON orders.customer_id = customers.id AND orders.status = ?", enums.OrderStatusCompleted).
		Group("customers.id, customers.created_at")
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) MetricsByID(ctx context.Context, id uuid.UUID) (*rfm.CustomerMetrics, error) {
	var row metricsRow
	err := r.metricsQuery(ctx).
		Where("customers.id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	metrics := r.toMetrics(row)
	return &metrics, nil
}

func (r *repository) ListMetrics(ctx context.Context, params pagination.Params) ([]rfm.CustomerMetrics, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.metricsQuery(ctx)
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, nil, err
		}
		if cursor != nil {
			query = query.Where("(customers.created_at, customers.id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	var rows []metricsRow
	if err := query.Order("customers.created_at ASC, customers.id ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	var next *pagination.Cursor
	if len(rows) > normalized {
		boundary := rows[normalized-1]
		rows = rows[:normalized]
		next = &pagination.Cursor{CreatedAt: boundary.CreatedAt, ID: boundary.CustomerID}
	}

	metrics := make([]rfm.CustomerMetrics, len(rows))
	for i, row := range rows {
		metrics[i] = r.toMetrics(row)
	}
	return metrics, next, nil
}

// ForEachMetricsBatch walks the whole customer base in created-at order,
// handing fixed-size batches to fn. Iteration stops on the first error.
func (r *repository) ForEachMetricsBatch(ctx context.Context, batchSize int, fn func(batch []rfm.CustomerMetrics) error) error {
	if batchSize <= 0 {
		batchSize = pagination.MaxLimit
	}

	var lastCreatedAt time.Time
	var lastID uuid.UUID
	started := false

	for {
		query := r.metricsQuery(ctx)
		if started {
			query = query.Where("(customers.created_at, customers.id) > (?, ?)", lastCreatedAt, lastID)
		}

		var rows []metricsRow
		if err := query.Order("customers.created_at ASC, customers.id ASC").Limit(batchSize).Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		batch := make([]rfm.CustomerMetrics, len(rows))
		for i, row := range rows {
			batch[i] = r.toMetrics(row)
		}
		if err := fn(batch); err != nil {
			return err
		}

		tail := rows[len(rows)-1]
		lastCreatedAt = tail.CreatedAt
		lastID = tail.CustomerID
		started = true

		if len(rows) < batchSize {
			return nil
		}
	}
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error
	return count, err
}

func (r *repository) toMetrics(row metricsRow) rfm.CustomerMetrics {
	metrics := rfm.CustomerMetrics{
		CustomerID:     row.CustomerID,
		LastPurchaseAt: row.LastPurchaseAt,
		TotalOrders:    row.TotalOrders,
		TotalSpend:     row.TotalSpend,
	}
	if row.LastPurchaseAt != nil {
		days := int(r.now().UTC().Sub(row.LastPurchaseAt.UTC()).Hours() / 24)
		if days < 0 {
			// Clock skew can put a POS sale slightly in the future.
			days = 0
		}
		metrics.DaysSinceLastPurchase = days
	}
	return metrics
}
