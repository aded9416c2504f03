package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmarquezf/bazaar-backend/pkg/enums"
)

// Delivery is the per-vendor slice of an order. A checkout touching N
// distinct vendors produces exactly N deliveries.
type Delivery struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index"`
	UserID        uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	VendorID      uuid.UUID            `gorm:"column:vendor_id;type:uuid;not null;index"`
	Status        enums.DeliveryStatus `gorm:"column:status;not null;default:'shipping'"`
	SubtotalCents int                  `gorm:"column:subtotal_cents;not null"`
	Items         []DeliveryItem       `gorm:"foreignKey:DeliveryID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
