package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmarquezf/bazaar-backend/pkg/db/models"
	pkgerrors "github.com/dmarquezf/bazaar-backend/pkg/errors"
	"github.com/dmarquezf/bazaar-backend/pkg/pagination"
)

// Service exposes order and delivery history reads.
type Service interface {
	ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]OrderDTO, pagination.Meta, error)
	ListUserDeliveries(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]DeliveryDTO, pagination.Meta, error)
	ListVendorDeliveries(ctx context.Context, vendorID uuid.UUID, params pagination.Params) ([]DeliveryDTO, pagination.Meta, error)
}

// database narrows *db.Client to what order reads use.
type database interface {
	DB() *gorm.DB
}

type service struct {
	db database
}

// NewService constructs the order history service.
func NewService(db database) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: db}, nil
}

func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]OrderDTO, pagination.Meta, error) {
	repo := NewRepository(s.db.DB())
	rows, total, err := repo.ListOrdersByUser(ctx, userID, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *OrderFromModel(&rows[i]))
	}
	return dtos, pagination.BuildMeta(params, total), nil
}

func (s *service) ListUserDeliveries(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]DeliveryDTO, pagination.Meta, error) {
	repo := NewRepository(s.db.DB())
	rows, total, err := repo.ListDeliveriesByUser(ctx, userID, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list deliveries")
	}
	return deliveryDTOs(rows), pagination.BuildMeta(params, total), nil
}

func (s *service) ListVendorDeliveries(ctx context.Context, vendorID uuid.UUID, params pagination.Params) ([]DeliveryDTO, pagination.Meta, error) {
	repo := NewRepository(s.db.DB())
	rows, total, err := repo.ListDeliveriesByVendor(ctx, vendorID, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list deliveries")
	}
	return deliveryDTOs(rows), pagination.BuildMeta(params, total), nil
}

func deliveryDTOs(rows []models.Delivery) []DeliveryDTO {
	dtos := make([]DeliveryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *DeliveryFromModel(&rows[i]))
	}
	return dtos
}
