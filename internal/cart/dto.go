package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmarquezf/bazaar-backend/pkg/db/models"
)

// AddItemRequest is the payload for adding or replacing a cart line.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// ItemDTO is the transport shape of one cart line.
type ItemDTO struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	VendorID       uuid.UUID       `json:"vendor_id"`
	Quantity       int             `json:"quantity"`
	UnitPriceCents int             `json:"unit_price_cents"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	LineTotalCents int             `json:"line_total_cents"`
	LineTotal      decimal.Decimal `json:"line_total"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CartDTO is the full cart view returned by cart operations.
type CartDTO struct {
	Items      []ItemDTO       `json:"items"`
	TotalCents int             `json:"total_cents"`
	Total      decimal.Decimal `json:"total"`
}

func itemFromModel(item *models.CartItem) ItemDTO {
	return ItemDTO{
		ID:             item.ID,
		ProductID:      item.ProductID,
		VendorID:       item.VendorID,
		Quantity:       item.Quantity,
		UnitPriceCents: item.UnitPriceCents,
		UnitPrice:      decimal.NewFromInt(int64(item.UnitPriceCents)).Shift(-2),
		LineTotalCents: item.LineTotalCents,
		LineTotal:      decimal.NewFromInt(int64(item.LineTotalCents)).Shift(-2),
		CreatedAt:      item.CreatedAt,
	}
}

func cartFromModels(items []models.CartItem) *CartDTO {
	dto := &CartDTO{Items: make([]ItemDTO, 0, len(items))}
	for i := range items {
		dto.Items = append(dto.Items, itemFromModel(&items[i]))
		dto.TotalCents += items[i].LineTotalCents
	}
	dto.Total = decimal.NewFromInt(int64(dto.TotalCents)).Shift(-2)
	return dto
}
