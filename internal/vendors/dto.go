package vendors

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmarquezf/bazaar-backend/pkg/db/models"
)

// VendorDTO is the transport shape that omits sensitive credentials.
type VendorDTO struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Description *string    `json:"description,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	Address     *string    `json:"address,omitempty"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateVendorDTO holds the data required by the repo to persist a new vendor.
type CreateVendorDTO struct {
	Username     string
	Email        string
	PasswordHash string
	DisplayName  string
	Description  *string
	Phone        *string
	Address      *string
}

func FromModel(v *models.Vendor) *VendorDTO {
	if v == nil {
		return nil
	}

	return &VendorDTO{
		ID:          v.ID,
		Username:    v.Username,
		Email:       v.Email,
		DisplayName: v.DisplayName,
		Description: v.Description,
		Phone:       v.Phone,
		Address:     v.Address,
		IsActive:    v.IsActive,
		LastLoginAt: v.LastLoginAt,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func (c CreateVendorDTO) ToModel() *models.Vendor {
	return &models.Vendor{
		ID:           uuid.New(),
		Username:     c.Username,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		DisplayName:  c.DisplayName,
		Description:  c.Description,
		Phone:        c.Phone,
		Address:      c.Address,
		IsActive:     true,
	}
}
