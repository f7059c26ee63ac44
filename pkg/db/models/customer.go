package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Customer is the POS-facing customer record scoring reads from.
type Customer struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FirstName string         `gorm:"column:first_name;not null"`
	LastName  string         `gorm:"column:last_name;not null"`
	Phone     *string        `gorm:"column:phone"`
	Email     *string        `gorm:"column:email"`
	StoreCode string         `gorm:"column:store_code;not null"`
	Tags      pq.StringArray `gorm:"column:tags;type:text[]"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
