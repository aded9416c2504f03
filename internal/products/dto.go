package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmarquezf/bazaar-backend/pkg/db/models"
	"github.com/dmarquezf/bazaar-backend/pkg/pagination"
)

// ProductDTO is the transport shape for catalog reads. Price is rendered in
// dollars from the stored cents value.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	Category    string          `json:"category"`
	Tags        []string        `json:"tags"`
	PriceCents  int             `json:"price_cents"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    *string         `json:"image_url,omitempty"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Category      string
	Tag           string
	VendorID      *uuid.UUID
	PriceMinCents *int
	PriceMaxCents *int
	Query         string
	InStock       bool
}

// ListInput captures the inputs needed to paginate/filter the catalog.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// CreateProductRequest is a vendor's new listing payload. Price arrives in cents.
type CreateProductRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description *string  `json:"description,omitempty"`
	Category    string   `json:"category" validate:"required,max=100"`
	Tags        []string `json:"tags,omitempty" validate:"dive,max=50"`
	PriceCents  int      `json:"price_cents" validate:"required,gt=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	ImageURL    *string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdateProductRequest carries partial listing updates.
type UpdateProductRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Tags        *[]string `json:"tags,omitempty"`
	PriceCents  *int      `json:"price_cents,omitempty" validate:"omitempty,gt=0"`
	Stock       *int      `json:"stock,omitempty" validate:"omitempty,gte=0"`
	ImageURL    *string   `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}

	return &ProductDTO{
		ID:          p.ID,
		VendorID:    p.VendorID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Tags:        append([]string(nil), p.Tags...),
		PriceCents:  p.PriceCents,
		Price:       decimal.NewFromInt(int64(p.PriceCents)).Shift(-2),
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func fromModels(rows []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}
