package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmarquezf/bazaar-backend/pkg/db/models"
	"github.com/dmarquezf/bazaar-backend/pkg/enums"
)

// OrderItemDTO is one purchased line inside an order.
type OrderItemDTO struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	VendorID       uuid.UUID       `json:"vendor_id"`
	Title          string          `json:"title"`
	UnitPriceCents int             `json:"unit_price_cents"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	LineTotalCents int             `json:"line_total_cents"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// OrderDTO is the transport shape of a checkout group order.
type OrderDTO struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"user_id"`
	Status     enums.OrderStatus `json:"status"`
	TotalCents int               `json:"total_cents"`
	Total      decimal.Decimal   `json:"total"`
	Items      []OrderItemDTO    `json:"items"`
	CreatedAt  time.Time         `json:"created_at"`
}

// DeliveryItemDTO is one product line inside a vendor delivery.
type DeliveryItemDTO struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Title          string          `json:"title"`
	UnitPriceCents int             `json:"unit_price_cents"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	LineTotalCents int             `json:"line_total_cents"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// DeliveryDTO is the transport shape of a per-vendor delivery.
type DeliveryDTO struct {
	ID            uuid.UUID            `json:"id"`
	OrderID       uuid.UUID            `json:"order_id"`
	UserID        uuid.UUID            `json:"user_id"`
	VendorID      uuid.UUID            `json:"vendor_id"`
	Status        enums.DeliveryStatus `json:"status"`
	SubtotalCents int                  `json:"subtotal_cents"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	Items         []DeliveryItemDTO    `json:"items"`
	CreatedAt     time.Time            `json:"created_at"`
}

func dollars(cents int) decimal.Decimal {
	return decimal.NewFromInt(int64(cents)).Shift(-2)
}

// OrderFromModel maps the persisted order into its transport shape.
func OrderFromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}

	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			VendorID:       item.VendorID,
			Title:          item.Title,
			UnitPriceCents: item.UnitPriceCents,
			UnitPrice:      dollars(item.UnitPriceCents),
			Quantity:       item.Quantity,
			LineTotalCents: item.LineTotalCents,
			LineTotal:      dollars(item.LineTotalCents),
		})
	}
	return &OrderDTO{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     o.Status,
		TotalCents: o.TotalCents,
		Total:      dollars(o.TotalCents),
		Items:      items,
		CreatedAt:  o.CreatedAt,
	}
}

// DeliveryFromModel maps the persisted delivery into its transport shape.
func DeliveryFromModel(d *models.Delivery) *DeliveryDTO {
	if d == nil {
		return nil
	}

	items := make([]DeliveryItemDTO, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, DeliveryItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Title:          item.Title,
			UnitPriceCents: item.UnitPriceCents,
			UnitPrice:      dollars(item.UnitPriceCents),
			Quantity:       item.Quantity,
			LineTotalCents: item.LineTotalCents,
			LineTotal:      dollars(item.LineTotalCents),
		})
	}
	return &DeliveryDTO{
		ID:            d.ID,
		OrderID:       d.OrderID,
		UserID:        d.UserID,
		VendorID:      d.VendorID,
		Status:        d.Status,
		SubtotalCents: d.SubtotalCents,
		Subtotal:      dollars(d.SubtotalCents),
		Items:         items,
		CreatedAt:     d.CreatedAt,
	}
}
