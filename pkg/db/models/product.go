package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a vendor listing.
type Product struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID    uuid.UUID      `gorm:"column:vendor_id;type:uuid;not null;index"`
	Title       string         `gorm:"column:title;not null"`
	Description *string        `gorm:"column:description"`
	Category    string         `gorm:"column:category;not null;index"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	PriceCents  int            `gorm:"column:price_cents;not null"`
	Stock       int            `gorm:"column:stock;not null;default:0"`
	ImageURL    *string        `gorm:"column:image_url"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
