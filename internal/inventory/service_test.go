package inventory

import (
	"context"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newInventoryServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE inventory_items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  sku TEXT,
  unit_price NUMERIC NOT NULL DEFAULT 0,
  threshold_limit INTEGER NOT NULL DEFAULT 0,
  supplier_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE inventory_batches (
  id TEXT PRIMARY KEY,
  item_id TEXT NOT NULL,
  lot_number TEXT NOT NULL,
  quantity_on_hand INTEGER NOT NULL DEFAULT 0,
  expiration_date DATE NOT NULL,
  received_at DATETIME NOT NULL,
  created_at DATETIME,
  CONSTRAINT inventory_batches_item_lot_key UNIQUE (item_id, lot_number)
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func newInventoryService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func createTestItem(t *testing.T, svc Service, name string, threshold int) uuid.UUID {
	t.Helper()
	item, err := svc.CreateItem(context.Background(), CreateItemInput{
		Name:           name,
		Category:       "consumable",
		UnitPrice:      decimal.NewFromFloat(3.50),
		ThresholdLimit: threshold,
	})
	require.NoError(t, err)
	return item.ID
}

func TestReceiveStockRejectsDuplicateLot(t *testing.T) {
	t.Parallel()

	db := newInventoryServiceDB(t)
	svc := newInventoryService(t, db)
	ctx := context.Background()

	itemA := createTestItem(t, svc, "Composite Resin", 5)
	itemB := createTestItem(t, svc, "Bonding Agent", 5)
	expires := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.ReceiveStock(ctx, ReceiveStockInput{
		ItemID:         itemA,
		LotNumber:      "LOT-100",
		Quantity:       20,
		ExpirationDate: expires,
	})
	require.NoError(t, err)

	_, err = svc.ReceiveStock(ctx, ReceiveStockInput{
		ItemID:         itemA,
		LotNumber:      "LOT-100",
		Quantity:       20,
		ExpirationDate: expires,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// The same lot number on a different item is a distinct delivery.
	_, err = svc.ReceiveStock(ctx, ReceiveStockInput{
		ItemID:         itemB,
		LotNumber:      "LOT-100",
		Quantity:       10,
		ExpirationDate: expires,
	})
	require.NoError(t, err)

	batches, err := svc.ListBatches(ctx, itemA)
	require.NoError(t, err)
	require.Len(t, batches, 1)
}

func TestListItemsFlagsLowStock(t *testing.T) {
	t.Parallel()

	db := newInventoryServiceDB(t)
	svc := newInventoryService(t, db)
	ctx := context.Background()

	low := createTestItem(t, svc, "Anesthetic Carpule", 10)
	healthy := createTestItem(t, svc, "Gauze Pack", 10)
	expires := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.ReceiveStock(ctx, ReceiveStockInput{
		ItemID: low, LotNumber: "LOT-L1", Quantity: 8, ExpirationDate: expires,
	})
	require.NoError(t, err)
	_, err = svc.ReceiveStock(ctx, ReceiveStockInput{
		ItemID: healthy, LotNumber: "LOT-H1", Quantity: 40, ExpirationDate: expires,
	})
	require.NoError(t, err)

	summaries, err := svc.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byName := map[string]ItemSummary{}
	for _, summary := range summaries {
		byName[summary.Item.Name] = summary
	}
	require.True(t, byName["Anesthetic Carpule"].LowStock)
	require.Equal(t, 8, byName["Anesthetic Carpule"].TotalOnHand)
	require.False(t, byName["Gauze Pack"].LowStock)
	require.Equal(t, 40, byName["Gauze Pack"].TotalOnHand)
}
