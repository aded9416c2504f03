package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmarquezf/bazaar-backend/pkg/config"
	"github.com/dmarquezf/bazaar-backend/pkg/db/models"
	pkgerrors "github.com/dmarquezf/bazaar-backend/pkg/errors"
	"github.com/dmarquezf/bazaar-backend/pkg/logger"
	"github.com/dmarquezf/bazaar-backend/pkg/pagination"
	"github.com/dmarquezf/bazaar-backend/pkg/redis"
)

// Service is the catalog surface for buyers plus listing management for vendors.
type Service interface {
	List(ctx context.Context, input ListInput) ([]ProductDTO, pagination.Meta, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	CreateListing(ctx context.Context, vendorID uuid.UUID, req CreateProductRequest) (*ProductDTO, error)
	UpdateListing(ctx context.Context, vendorID, productID uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	DeleteListing(ctx context.Context, vendorID, productID uuid.UUID) error
	ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) ([]ProductDTO, pagination.Meta, error)
}

// productCache is the subset of the redis client the catalog needs.
type productCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	ProductCacheKey(productID string) string
}

// database narrows *db.Client to what the catalog uses.
type database interface {
	DB() *gorm.DB
}

// ServiceParams bundles the dependencies for the catalog service.
type ServiceParams struct {
	DB      database
	Cache   productCache
	Logger  *logger.Logger
	Catalog config.CatalogConfig
}

type service struct {
	db       database
	cache    productCache
	logg     *logger.Logger
	cacheTTL time.Duration
	pageSize int
}

// NewService constructs the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Cache == nil {
		return nil, fmt.Errorf("product cache is required")
	}
	pageSize := params.Catalog.PageSize
	if pageSize <= 0 {
		pageSize = pagination.DefaultLimit
	}
	cacheTTL := params.Catalog.ProductCacheTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &service{
		db:       params.DB,
		cache:    params.Cache,
		logg:     params.Logger,
		cacheTTL: cacheTTL,
		pageSize: pageSize,
	}, nil
}

func (s *service) List(ctx context.Context, input ListInput) ([]ProductDTO, pagination.Meta, error) {
	if input.Pagination.Limit <= 0 {
		input.Pagination.Limit = s.pageSize
	}

	repo := NewRepository(s.db.DB())
	rows, total, err := repo.List(ctx, input)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return fromModels(rows), pagination.BuildMeta(input.Pagination, total), nil
}

// GetByID serves product detail through the read-through cache. Cache failures
// degrade to a direct read.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	key := s.cache.ProductCacheKey(id.String())

	if raw, err := s.cache.Get(ctx, key); err == nil {
		var dto ProductDTO
		if jsonErr := json.Unmarshal([]byte(raw), &dto); jsonErr == nil {
			return &dto, nil
		}
		// unreadable entry, fall through and rebuild it
		_ = s.cache.Del(ctx, key)
	} else if !redis.IsNil(err) && s.logg != nil {
		s.logg.Warn(ctx, "product cache read failed")
	}

	repo := NewRepository(s.db.DB())
	product, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	dto := FromModel(product)
	if payload, err := json.Marshal(dto); err == nil {
		if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "product cache write failed")
		}
	}
	return dto, nil
}

func (s *service) CreateListing(ctx context.Context, vendorID uuid.UUID, req CreateProductRequest) (*ProductDTO, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "vendor identity required")
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	product := &models.Product{
		ID:          uuid.New(),
		VendorID:    vendorID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        tags,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}

	repo := NewRepository(s.db.DB())
	if _, err := repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) UpdateListing(ctx context.Context, vendorID, productID uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	repo := NewRepository(s.db.DB())
	product, err := s.ownedProduct(ctx, repo, vendorID, productID)
	if err != nil {
		return nil, err
	}

	applyUpdate(product, req)
	if _, err := repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}

	s.invalidate(ctx, productID)
	return FromModel(product), nil
}

func (s *service) DeleteListing(ctx context.Context, vendorID, productID uuid.UUID) error {
	repo := NewRepository(s.db.DB())
	if _, err := s.ownedProduct(ctx, repo, vendorID, productID); err != nil {
		return err
	}

	if err := repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}

	s.invalidate(ctx, productID)
	return nil
}

func (s *service) ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) ([]ProductDTO, pagination.Meta, error) {
	if params.Limit <= 0 {
		params.Limit = s.pageSize
	}

	repo := NewRepository(s.db.DB())
	rows, total, err := repo.ListByVendor(ctx, vendorID, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vendor products")
	}
	return fromModels(rows), pagination.BuildMeta(params, total), nil
}

func (s *service) ownedProduct(ctx context.Context, repo *Repository, vendorID, productID uuid.UUID) (*models.Product, error) {
	product, err := repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if product.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another vendor")
	}
	return product, nil
}

func (s *service) invalidate(ctx context.Context, productID uuid.UUID) {
	if err := s.cache.Del(ctx, s.cache.ProductCacheKey(productID.String())); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "product cache invalidation failed")
	}
}

func applyUpdate(product *models.Product, req UpdateProductRequest) {
	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Tags != nil {
		product.Tags = *req.Tags
	}
	if req.PriceCents != nil {
		product.PriceCents = *req.PriceCents
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
}
