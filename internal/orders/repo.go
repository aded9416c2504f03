package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmarquezf/bazaar-backend/pkg/db/models"
	"github.com/dmarquezf/bazaar-backend/pkg/pagination"
)

// Repository persists orders and their vendor deliveries.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateOrder inserts the order together with its item snapshot.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// CreateDeliveries batch-inserts the per-vendor deliveries.
func (r *Repository) CreateDeliveries(ctx context.Context, deliveries []models.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&deliveries).Error
}

// FindOrderByID loads one order with its items and deliveries.
func (r *Repository) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Deliveries").
		Preload("Deliveries.Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersByUser returns the user's orders newest first.
func (r *Repository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListDeliveriesByUser returns the buyer's deliveries newest first.
func (r *Repository) ListDeliveriesByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Delivery, int64, error) {
	return r.listDeliveries(ctx, "user_id = ?", userID, params)
}

// ListDeliveriesByVendor returns the vendor's deliveries newest first.
func (r *Repository) ListDeliveriesByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) ([]models.Delivery, int64, error) {
	return r.listDeliveries(ctx, "vendor_id = ?", vendorID, params)
}

func (r *Repository) listDeliveries(ctx context.Context, where string, id uuid.UUID, params pagination.Params) ([]models.Delivery, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.Delivery{}).Where(where, id)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Delivery
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where(where, id).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
