package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/optikart/optikart-backend/pkg/enums"
)

// Order is one completed or in-flight POS sale.
type Order struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID  uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	StoreCode   string            `gorm:"column:store_code;not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	PlacedAt    time.Time         `gorm:"column:placed_at;not null"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
