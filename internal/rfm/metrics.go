package rfm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/optikart/optikart-backend/pkg/enums"
)

// CustomerMetrics is the per-customer snapshot the engine scores. It is
// produced by the order history store; the engine performs no date arithmetic
// of its own.
type CustomerMetrics struct {
	CustomerID uuid.UUID

	// LastPurchaseAt is nil when the customer has no purchase on record.
	LastPurchaseAt        *time.Time
	DaysSinceLastPurchase int

	TotalOrders int64
	TotalSpend  decimal.Decimal
}

// Score is the engine output for one customer.
type Score struct {
	CustomerID uuid.UUID     `json:"customerId"`
	Recency    int           `json:"recency"`
	Frequency  int           `json:"frequency"`
	Monetary   int           `json:"monetary"`
	Total      int           `json:"total"`
	Segment    enums.Segment `json:"segment"`
}
