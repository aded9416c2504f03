package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmarquezf/bazaar-backend/pkg/enums"
)

// Order is the checkout group covering every vendor touched by one checkout.
type Order struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Status     enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	TotalCents int               `gorm:"column:total_cents;not null"`
	Items      []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Deliveries []Delivery        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
