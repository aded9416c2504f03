package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dmarquezf/bazaar-backend/pkg/db/models"
	pkgerrors "github.com/dmarquezf/bazaar-backend/pkg/errors"
)

type testDB struct {
	conn *gorm.DB
}

func (d *testDB) DB() *gorm.DB { return d.conn }

type fakeProductLoader struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeProductLoader) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func setupCartDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  line_total_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, product_id)
);`).Error)
	return db
}

func activeProduct(vendorID uuid.UUID, priceCents, stock int) *models.Product {
	return &models.Product{
		ID:         uuid.New(),
		VendorID:   vendorID,
		Title:      "widget",
		Category:   "general",
		PriceCents: priceCents,
		Stock:      stock,
		IsActive:   true,
	}
}

func newCartService(t *testing.T, db *gorm.DB, loader *fakeProductLoader) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{DB: &testDB{conn: db}, Products: loader})
	require.NoError(t, err)
	return svc
}

func TestAddItemSnapshotsPriceAndVendor(t *testing.T) {
	db := setupCartDB(t)
	vendorID := uuid.New()
	product := activeProduct(vendorID, 1250, 10)
	svc := newCartService(t, db, &fakeProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}})

	userID := uuid.New()
	item, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, product.ID, item.ProductID)
	assert.Equal(t, vendorID, item.VendorID)
	assert.Equal(t, 1250, item.UnitPriceCents)
	assert.Equal(t, 3750, item.LineTotalCents)
	assert.Equal(t, 3, item.Quantity)
}

func TestAddItemOverwritesQuantity(t *testing.T) {
	db := setupCartDB(t)
	product := activeProduct(uuid.New(), 500, 10)
	svc := newCartService(t, db, &fakeProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}})

	userID := uuid.New()
	ctx := context.Background()
	_, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	// price moves between adds; the snapshot must follow the latest add
	product.PriceCents = 600
	item, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, 600, item.UnitPriceCents)
	assert.Equal(t, 3000, item.LineTotalCents)

	var rows []models.CartItem
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Quantity)
	assert.Equal(t, 600, rows[0].UnitPriceCents)
}

func TestAddItemRejectsUnknownOrInactive(t *testing.T) {
	db := setupCartDB(t)
	inactive := activeProduct(uuid.New(), 100, 5)
	inactive.IsActive = false
	svc := newCartService(t, db, &fakeProductLoader{products: map[uuid.UUID]*models.Product{inactive.ID: inactive}})

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: uuid.New(), Quantity: 1})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	_, err = svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: inactive.ID, Quantity: 1})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestAddItemRejectsShortStock(t *testing.T) {
	db := setupCartDB(t)
	product := activeProduct(uuid.New(), 100, 2)
	svc := newCartService(t, db, &fakeProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}})

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: product.ID, Quantity: 3})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeOutOfStock, pkgerrors.CodeOf(err))

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(stockDetails)
	require.True(t, ok)
	assert.Equal(t, 2, details.RemainingStock)
	assert.Equal(t, 3, details.Requested)
}

func TestRemoveItemAbsentProduct(t *testing.T) {
	db := setupCartDB(t)
	svc := newCartService(t, db, &fakeProductLoader{})

	_, err := svc.RemoveItem(context.Background(), uuid.New(), uuid.New())
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestRemoveItemReturnsRemainingCart(t *testing.T) {
	db := setupCartDB(t)
	productA := activeProduct(uuid.New(), 100, 10)
	productB := activeProduct(uuid.New(), 200, 10)
	svc := newCartService(t, db, &fakeProductLoader{products: map[uuid.UUID]*models.Product{
		productA.ID: productA,
		productB.ID: productB,
	}})

	userID := uuid.New()
	ctx := context.Background()
	_, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: productA.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID, AddItemRequest{ProductID: productB.ID, Quantity: 2})
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, userID, productA.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, productB.ID, cart.Items[0].ProductID)
	assert.Equal(t, 400, cart.TotalCents)
}

func TestGetCheckoutViewEmptyCart(t *testing.T) {
	db := setupCartDB(t)
	svc := newCartService(t, db, &fakeProductLoader{})

	_, err := svc.GetCheckoutView(context.Background(), uuid.New())
	assert.Equal(t, pkgerrors.CodeEmptyCart, pkgerrors.CodeOf(err))
}

func TestRepositoryStaleWindow(t *testing.T) {
	db := setupCartDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	old := &models.CartItem{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		ProductID:      uuid.New(),
		VendorID:       uuid.New(),
		Quantity:       1,
		UnitPriceCents: 100,
		LineTotalCents: 100,
	}
	require.NoError(t, db.Create(old).Error)
	require.NoError(t, db.Model(old).UpdateColumn("updated_at", time.Now().Add(-48*time.Hour)).Error)

	fresh := &models.CartItem{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		ProductID:      uuid.New(),
		VendorID:       uuid.New(),
		Quantity:       1,
		UnitPriceCents: 100,
		LineTotalCents: 100,
	}
	require.NoError(t, db.Create(fresh).Error)

	cutoff := time.Now().Add(-24 * time.Hour)
	count, err := repo.CountStale(ctx, cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	purged, err := repo.DeleteStale(ctx, cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)
}
