package vendors

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmarquezf/bazaar-backend/pkg/config"
	"github.com/dmarquezf/bazaar-backend/pkg/db"
	pkgerrors "github.com/dmarquezf/bazaar-backend/pkg/errors"
	"github.com/dmarquezf/bazaar-backend/pkg/pagination"
	"github.com/dmarquezf/bazaar-backend/pkg/security"
)

// database is the persistence surface required from *db.Client.
type database interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	DB() *gorm.DB
}

// RegisterRequest contains the payload for creating a vendor account.
type RegisterRequest struct {
	Username    string  `json:"username" validate:"required,min=3,max=64"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	DisplayName string  `json:"display_name" validate:"required"`
	Description *string `json:"description,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
}

// Service handles vendor account registration and directory listing.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*VendorDTO, error)
	List(ctx context.Context, params pagination.Params) ([]VendorDTO, pagination.Meta, error)
	GetByID(ctx context.Context, id uuid.UUID) (*VendorDTO, error)
}

// ServiceParams packages the dependencies for the vendors service.
type ServiceParams struct {
	DB             database
	PasswordConfig config.PasswordConfig
}

type service struct {
	db          database
	passwordCfg config.PasswordConfig
}

// NewService builds a vendors service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &service{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*VendorDTO, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var dto *VendorDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		if _, err := repo.FindByUsername(ctx, username); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}
		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
		}

		vendor, err := repo.Create(ctx, CreateVendorDTO{
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
			DisplayName:  strings.TrimSpace(req.DisplayName),
			Description:  req.Description,
			Phone:        req.Phone,
			Address:      req.Address,
		})
		if err != nil {
			// concurrent registration can still trip the unique index
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "account already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create vendor")
		}
		dto = FromModel(vendor)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]VendorDTO, pagination.Meta, error) {
	repo := NewRepository(s.db.DB())
	rows, total, err := repo.List(ctx, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vendors")
	}

	dtos := make([]VendorDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, pagination.BuildMeta(params, total), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*VendorDTO, error) {
	repo := NewRepository(s.db.DB())
	vendor, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load vendor")
	}
	return FromModel(vendor), nil
}
