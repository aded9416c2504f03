package vendors

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmarquezf/bazaar-backend/pkg/db/models"
	"github.com/dmarquezf/bazaar-backend/pkg/pagination"
)

// Repository exposes vendor-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a vendors repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new vendor and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateVendorDTO) (*models.Vendor, error) {
	vendor := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

// FindByUsername retrieves the vendor matching the provided username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// FindByEmail retrieves the vendor matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// FindByID loads a vendor by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// List returns a page of active vendors ordered by creation time.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Vendor, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.Vendor{}).Where("is_active = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var vendors []models.Vendor
	if err := query.
		Order("created_at ASC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&vendors).Error; err != nil {
		return nil, 0, err
	}
	return vendors, total, nil
}

// UpdateLastLogin refreshes the vendor's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Vendor{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}
