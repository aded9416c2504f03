package orders

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
	"github.com/dmarquezf/bazaar-backend/pkg/enums"
	"github.com/dmarquezf/bazaar-backend/pkg/pagination"
)

type testDB struct {
	conn *gorm.DB
}

func (d *testDB) DB() *gorm.DB { return d.conn }

func setupOrderDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  title TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  line_total_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE deliveries (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'shipping',
  subtotal_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE delivery_items (
  id TEXT PRIMARY KEY,
  delivery_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  title TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  line_total_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, totalCents int, createdAt time.Time) *models.Order {
	t.Helper()

	productID := uuid.New()
	vendorID := uuid.New()
	order := &models.Order{
		ID:         uuid.New(),
		UserID:     userID,
		Status:     enums.OrderStatusPaid,
		TotalCents: totalCents,
		Items: []models.OrderItem{{
			ID:             uuid.New(),
			ProductID:      productID,
			VendorID:       vendorID,
			Title:          "snapshot title",
			UnitPriceCents: totalCents,
			Quantity:       1,
			LineTotalCents: totalCents,
		}},
		CreatedAt: createdAt,
	}
	repo := NewRepository(db)
	require.NoError(t, repo.CreateOrder(context.Background(), order))
	return order
}

func seedDelivery(t *testing.T, db *gorm.DB, orderID, userID, vendorID uuid.UUID, subtotal int, createdAt time.Time) *models.Delivery {
	t.Helper()

	delivery := models.Delivery{
		ID:            uuid.New(),
		OrderID:       orderID,
		UserID:        userID,
		VendorID:      vendorID,
		Status:        enums.DeliveryStatusShipping,
		SubtotalCents: subtotal,
		Items: []models.DeliveryItem{{
			ID:             uuid.New(),
			ProductID:      uuid.New(),
			Title:          "snapshot title",
			UnitPriceCents: subtotal,
			Quantity:       1,
			LineTotalCents: subtotal,
		}},
		CreatedAt: createdAt,
	}
	repo := NewRepository(db)
	require.NoError(t, repo.CreateDeliveries(context.Background(), []models.Delivery{delivery}))
	return &delivery
}

func TestListUserOrdersNewestFirst(t *testing.T) {
	db := setupOrderDB(t)
	svc, err := NewService(&testDB{conn: db})
	require.NoError(t, err)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	older := seedOrder(t, db, userID, 1000, base)
	newer := seedOrder(t, db, userID, 2500, base.Add(time.Hour))
	seedOrder(t, db, uuid.New(), 9900, base.Add(2*time.Hour))

	rows, meta, err := svc.ListUserOrders(ctx, userID, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
	assert.EqualValues(t, 2, meta.Total)

	require.Len(t, rows[0].Items, 1)
	assert.Equal(t, "snapshot title", rows[0].Items[0].Title)
	assert.Equal(t, "25", rows[0].Total.String())
}

func TestListUserOrdersPaginates(t *testing.T) {
	db := setupOrderDB(t)
	svc, err := NewService(&testDB{conn: db})
	require.NoError(t, err)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedOrder(t, db, userID, 100*(i+1), base.Add(time.Duration(i)*time.Minute))
	}

	rows, meta, err := svc.ListUserOrders(ctx, userID, pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
	assert.False(t, meta.HasMore)
}

func TestListDeliveriesByActor(t *testing.T) {
	db := setupOrderDB(t)
	svc, err := NewService(&testDB{conn: db})
	require.NoError(t, err)
	ctx := context.Background()

	userID := uuid.New()
	vendorID := uuid.New()
	order := seedOrder(t, db, userID, 3000, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	mine := seedDelivery(t, db, order.ID, userID, vendorID, 2000, order.CreatedAt)
	seedDelivery(t, db, order.ID, userID, uuid.New(), 1000, order.CreatedAt)
	seedDelivery(t, db, uuid.New(), uuid.New(), vendorID, 500, order.CreatedAt)

	userRows, meta, err := svc.ListUserDeliveries(ctx, userID, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, userRows, 2)
	assert.EqualValues(t, 2, meta.Total)

	vendorRows, meta, err := svc.ListVendorDeliveries(ctx, vendorID, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, vendorRows, 2)
	assert.EqualValues(t, 2, meta.Total)

	var matched bool
	for _, row := range vendorRows {
		if row.ID == mine.ID {
			matched = true
			assert.Equal(t, enums.DeliveryStatusShipping, row.Status)
			assert.Equal(t, 2000, row.SubtotalCents)
			require.Len(t, row.Items, 1)
			assert.Equal(t, "snapshot title", row.Items[0].Title)
		}
	}
	assert.True(t, matched)
}

func TestNewServiceRequiresDB(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}
