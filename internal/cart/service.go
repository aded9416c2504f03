package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmarquezf/bazaar-backend/pkg/db/models"
	pkgerrors "github.com/dmarquezf/bazaar-backend/pkg/errors"
)

// Service manages a user's cart lines.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*ItemDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
	GetCheckoutView(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

// database narrows *db.Client to what the cart service uses.
type database interface {
	DB() *gorm.DB
}

// stockDetails names the offending product in out-of-stock responses.
type stockDetails struct {
	ProductID      uuid.UUID `json:"product_id"`
	RemainingStock int       `json:"remaining_stock"`
	Requested      int       `json:"requested"`
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams bundles cart service dependencies.
type ServiceParams struct {
	DB       database
	Products productLoader
}

type service struct {
	db       database
	products productLoader
}

// NewService constructs a cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product loader is required")
	}
	return &service{db: params.DB, products: params.Products}, nil
}

// AddItem validates the product against live stock and writes the cart line.
// An existing line for the same product is overwritten, not incremented.
// Stock is only checked here, never reserved.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*ItemDTO, error) {
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if product.Stock == 0 || req.Quantity > product.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeOutOfStock, "not enough stock for product").
			WithDetails(stockDetails{
				ProductID:      product.ID,
				RemainingStock: product.Stock,
				Requested:      req.Quantity,
			})
	}

	item := &models.CartItem{
		ID:             uuid.New(),
		UserID:         userID,
		ProductID:      product.ID,
		VendorID:       product.VendorID,
		Quantity:       req.Quantity,
		UnitPriceCents: product.PriceCents,
		LineTotalCents: product.PriceCents * req.Quantity,
	}

	repo := NewRepository(s.db.DB())
	if err := repo.Upsert(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write cart line")
	}

	dto := itemFromModel(item)
	return &dto, nil
}

// RemoveItem drops the product's line and returns the remaining cart.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	repo := NewRepository(s.db.DB())

	removed, err := repo.Remove(ctx, userID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart line")
	}
	if !removed {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}

	items, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return cartFromModels(items), nil
}

// GetCheckoutView returns the current cart verbatim, or EmptyCart when there
// is nothing to check out.
func (s *service) GetCheckoutView(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	repo := NewRepository(s.db.DB())

	items, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}
	return cartFromModels(items), nil
}
