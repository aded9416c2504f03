package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmarquezf/bazaar-backend/internal/cart"
	"github.com/dmarquezf/bazaar-backend/internal/checkout/helpers"
	"github.com/dmarquezf/bazaar-backend/internal/orders"
	"github.com/dmarquezf/bazaar-backend/internal/products"
	"github.com/dmarquezf/bazaar-backend/pkg/db/models"
	"github.com/dmarquezf/bazaar-backend/pkg/enums"
	pkgerrors "github.com/dmarquezf/bazaar-backend/pkg/errors"
	"github.com/dmarquezf/bazaar-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productCacheInvalidator interface {
	Del(ctx context.Context, keys ...string) error
	ProductCacheKey(productID string) string
}

// Service executes checkout orchestration.
type Service interface {
	CommitOrder(ctx context.Context, userID uuid.UUID) (*orders.OrderDTO, error)
}

// ServiceParams bundles the checkout dependencies.
type ServiceParams struct {
	TX     txRunner
	Cache  productCacheInvalidator
	Logger *logger.Logger
}

type service struct {
	tx    txRunner
	cache productCacheInvalidator
	logg  *logger.Logger
}

// NewService constructs the checkout orchestrator.
func NewService(params ServiceParams) (Service, error) {
	if params.TX == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{tx: params.TX, cache: params.Cache, logg: params.Logger}, nil
}

// outOfStockLine names one offending product in an aborted commit.
type outOfStockLine struct {
	ProductID      uuid.UUID `json:"product_id"`
	Title          string    `json:"title,omitempty"`
	RemainingStock int       `json:"remaining_stock"`
	Requested      int       `json:"requested"`
}

// CommitOrder converts the user's cart into an order plus one delivery per
// vendor, decrements product stock, and clears the cart. The whole sequence
// runs inside one transaction: either every write lands or none do.
func (s *service) CommitOrder(ctx context.Context, userID uuid.UUID) (*orders.OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := cart.NewRepository(tx)
		productRepo := products.NewRepository(tx)
		orderRepo := orders.NewRepository(tx)

		// step 1: the cart must have something to commit
		items, err := cartRepo.ListByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}

		// step 2: re-validate stock against current product rows
		productsByID, err := s.validateStock(ctx, productRepo, items)
		if err != nil {
			return err
		}

		// step 3: order materialization from the cart snapshot
		order := buildOrder(userID, items, productsByID)
		if err := orderRepo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		// step 4: one delivery per distinct vendor, first-appearance order
		deliveries := buildDeliveries(order.ID, userID, helpers.PartitionByVendor(items), productsByID)
		if err := orderRepo.CreateDeliveries(ctx, deliveries); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create deliveries")
		}
		order.Deliveries = deliveries

		// step 5: conditional decrement closes the oversell race; a missed
		// row means stock moved since validation, so the whole commit rolls
		// back
		for productID, quantity := range helpers.SumQuantitiesByProduct(items) {
			ok, err := productRepo.DecrementStock(ctx, productID, quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeOutOfStock, "stock changed during checkout").
					WithDetails([]outOfStockLine{{ProductID: productID, Requested: quantity}})
			}
		}

		// step 6: cart clear
		if err := cartRepo.Clear(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProducts(ctx, created.Items)

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_id":    created.ID,
			"user_id":     userID,
			"total_cents": created.TotalCents,
			"deliveries":  len(created.Deliveries),
		}), "order committed")
	}
	return orders.OrderFromModel(created), nil
}

func (s *service) validateStock(ctx context.Context, repo *products.Repository, items []models.CartItem) (map[uuid.UUID]*models.Product, error) {
	wanted := helpers.SumQuantitiesByProduct(items)
	ids := make([]uuid.UUID, 0, len(wanted))
	for productID := range wanted {
		ids = append(ids, productID)
	}

	rows, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	var missing []uuid.UUID
	var short []outOfStockLine
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			missing = append(missing, item.ProductID)
			continue
		}
		if quantity := wanted[item.ProductID]; product.Stock < quantity {
			short = append(short, outOfStockLine{
				ProductID:      product.ID,
				Title:          product.Title,
				RemainingStock: product.Stock,
				Requested:      quantity,
			})
		}
	}

	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart references missing products")
	}
	if len(short) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeOutOfStock, "not enough stock to commit order").
			WithDetails(short)
	}
	return byID, nil
}

func productTitle(productsByID map[uuid.UUID]*models.Product, id uuid.UUID) string {
	if product, ok := productsByID[id]; ok {
		return product.Title
	}
	return ""
}

func buildOrder(userID uuid.UUID, items []models.CartItem, productsByID map[uuid.UUID]*models.Product) *models.Order {
	order := &models.Order{
		ID:         uuid.New(),
		UserID:     userID,
		Status:     enums.OrderStatusPending,
		TotalCents: helpers.CartTotalCents(items),
	}
	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ProductID:      item.ProductID,
			VendorID:       item.VendorID,
			Title:          productTitle(productsByID, item.ProductID),
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			LineTotalCents: item.LineTotalCents,
		})
	}
	return order
}

func buildDeliveries(orderID, userID uuid.UUID, partitions []helpers.VendorPartition, productsByID map[uuid.UUID]*models.Product) []models.Delivery {
	deliveries := make([]models.Delivery, 0, len(partitions))
	for _, partition := range partitions {
		delivery := models.Delivery{
			ID:            uuid.New(),
			OrderID:       orderID,
			UserID:        userID,
			VendorID:      partition.VendorID,
			Status:        enums.DeliveryStatusShipping,
			SubtotalCents: partition.SubtotalCents,
		}
		for _, item := range partition.Items {
			delivery.Items = append(delivery.Items, models.DeliveryItem{
				ID:             uuid.New(),
				DeliveryID:     delivery.ID,
				ProductID:      item.ProductID,
				Title:          productTitle(productsByID, item.ProductID),
				UnitPriceCents: item.UnitPriceCents,
				Quantity:       item.Quantity,
				LineTotalCents: item.LineTotalCents,
			})
		}
		deliveries = append(deliveries, delivery)
	}
	return deliveries
}

func (s *service) invalidateProducts(ctx context.Context, items []models.OrderItem) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, s.cache.ProductCacheKey(item.ProductID.String()))
	}
	if len(keys) == 0 {
		return
	}
	if err := s.cache.Del(ctx, keys...); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "product cache invalidation failed after checkout")
	}
}
