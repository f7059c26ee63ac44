package segmentation

import (
	"time"

	"github.com/google/uuid"

	"github.com/optikart/optikart-backend/internal/rfm"
	"github.com/optikart/optikart-backend/pkg/enums"
)

// Summary is the segment distribution for the whole customer base.
type Summary struct {
	GeneratedAt    time.Time           `json:"generatedAt"`
	TotalCustomers int64               `json:"totalCustomers"`
	Classified     int64               `json:"classified"`
	Invalid        int64               `json:"invalid"`
	Buckets        []rfm.SegmentBucket `json:"buckets"`
	FromCache      bool                `json:"fromCache"`
}

// ScoredCustomer pairs a customer's metrics with the resulting score.
type ScoredCustomer struct {
	CustomerID            uuid.UUID             `json:"customerId"`
	LastPurchaseAt        *time.Time            `json:"lastPurchaseAt,omitempty"`
	DaysSinceLastPurchase int                   `json:"daysSinceLastPurchase"`
	TotalOrders           int64                 `json:"totalOrders"`
	TotalSpend            string                `json:"totalSpend"`
	Score                 rfm.Score             `json:"score"`
	Metadata              enums.SegmentMetadata `json:"metadata"`
}

// CustomerPage is one page of scored customers.
type CustomerPage struct {
	Items      []ScoredCustomer `json:"items"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// CustomerDetail is the full scoring picture for a single customer.
type CustomerDetail struct {
	CustomerID uuid.UUID      `json:"customerId"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	StoreCode  string         `json:"storeCode"`
	Scored     ScoredCustomer `json:"scored"`
}

// PreviewInput carries raw metrics for ad-hoc scoring. A nil
// DaysSinceLastPurchase means the customer has never purchased.
type PreviewInput struct {
	DaysSinceLastPurchase *int   `json:"daysSinceLastPurchase"`
	TotalOrders           int64  `json:"totalOrders"`
	TotalSpend            string `json:"totalSpend"`
}

// SegmentInfo describes one segment for catalog listings.
type SegmentInfo struct {
	Segment  enums.Segment         `json:"segment"`
	Ordinal  int                   `json:"ordinal"`
	Metadata enums.SegmentMetadata `json:"metadata"`
}
