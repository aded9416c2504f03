package vendors

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dmarquezf/bazaar-backend/pkg/config"
	"github.com/dmarquezf/bazaar-backend/pkg/db/models"
	pkgerrors "github.com/dmarquezf/bazaar-backend/pkg/errors"
	"github.com/dmarquezf/bazaar-backend/pkg/pagination"
)

type testDatabase struct {
	conn *gorm.DB
}

func (d *testDatabase) DB() *gorm.DB { return d.conn }

func (d *testDatabase) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := d.conn.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func setupVendorDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE vendors (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  display_name TEXT NOT NULL,
  description TEXT,
  phone TEXT,
  address TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return db
}

func newVendorService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:             &testDatabase{conn: db},
		PasswordConfig: config.PasswordConfig{},
	})
	require.NoError(t, err)
	return svc
}

func registerRequest(username, email string) RegisterRequest {
	return RegisterRequest{
		Username:    username,
		Email:       email,
		Password:    "correct horse",
		DisplayName: "Outdoor Supply Co",
	}
}

func TestRegisterCreatesVendor(t *testing.T) {
	db := setupVendorDB(t)
	svc := newVendorService(t, db)
	ctx := context.Background()

	dto, err := svc.Register(ctx, registerRequest("supplyco", "Shop@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, "supplyco", dto.Username)
	assert.Equal(t, "shop@example.com", dto.Email)
	assert.Equal(t, "Outdoor Supply Co", dto.DisplayName)
	assert.True(t, dto.IsActive)

	var stored models.Vendor
	require.NoError(t, db.First(&stored, "id = ?", dto.ID).Error)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	db := setupVendorDB(t)
	svc := newVendorService(t, db)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("supplyco", "one@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("supplyco", "two@example.com"))
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))

	_, err = svc.Register(ctx, registerRequest("othershop", "one@example.com"))
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
}

func TestListPaginatesVendors(t *testing.T) {
	db := setupVendorDB(t)
	svc := newVendorService(t, db)
	ctx := context.Background()

	for _, name := range []string{"alpha", "beta", "gamma"} {
		_, err := svc.Register(ctx, registerRequest(name, name+"@example.com"))
		require.NoError(t, err)
	}

	rows, meta, err := svc.List(ctx, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.EqualValues(t, 3, meta.Total)
	assert.True(t, meta.HasMore)
}

func TestGetByIDUnknownVendor(t *testing.T) {
	svc := newVendorService(t, setupVendorDB(t))

	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}
