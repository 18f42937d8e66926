package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"garage-service/internal/model"
)

// getTestStore connects to the Postgres instance named by TEST_DB_DSN and
// skips the test when the database is unreachable.
func getTestStore(t *testing.T) *GormStore {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres password=password dbname=garage_service_test sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		t.Skipf("Postgres not available: %v", err)
	}

	require.NoError(t, db.AutoMigrate(&model.Category{}, &model.Product{}, &model.Inventory{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM inventories")
		db.Exec("DELETE FROM products")
		sqlDB.Close()
	})

	return NewGormStore(db)
}

func testProduct(name string) *model.Product {
	return &model.Product{
		Name:         name,
		SellingPrice: decimal.RequireFromString("19.99"),
	}
}

func TestCreatePairInTx(t *testing.T) {
	st := getTestStore(t)
	ctx := context.Background()
	name := fmt.Sprintf("pair-%d", time.Now().UnixNano())

	product := testProduct(name)
	err := st.InTx(ctx, func(s Store) error {
		if err := s.CreateProduct(ctx, product); err != nil {
			return err
		}
		return s.CreateInventory(ctx, &model.Inventory{
			ProductID:    product.ID,
			CurrentStock: decimal.RequireFromString("50.00"),
		})
	})
	require.NoError(t, err)

	inv, err := st.GetInventory(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, inv.CurrentStock.Equal(decimal.RequireFromString("50")))
}

func TestTxRollbackLeavesNoPartialPair(t *testing.T) {
	st := getTestStore(t)
	ctx := context.Background()
	name := fmt.Sprintf("rollback-%d", time.Now().UnixNano())

	product := testProduct(name)
	err := st.InTx(ctx, func(s Store) error {
		if err := s.CreateProduct(ctx, product); err != nil {
			return err
		}
		return fmt.Errorf("forced failure")
	})
	require.Error(t, err)

	exists, err := st.ProductExistsByName(ctx, name)
	require.NoError(t, err)
	assert.False(t, exists, "product insert must have rolled back")
}

func TestDuplicateNameTranslated(t *testing.T) {
	st := getTestStore(t)
	ctx := context.Background()
	name := fmt.Sprintf("dup-%d", time.Now().UnixNano())

	require.NoError(t, st.CreateProduct(ctx, testProduct(name)))
	err := st.CreateProduct(ctx, testProduct(name))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestGetInventoryForUpdateBlocksConcurrentWriter(t *testing.T) {
	st := getTestStore(t)
	ctx := context.Background()
	name := fmt.Sprintf("lock-%d", time.Now().UnixNano())

	product := testProduct(name)
	require.NoError(t, st.CreateProduct(ctx, product))
	require.NoError(t, st.CreateInventory(ctx, &model.Inventory{
		ProductID:    product.ID,
		CurrentStock: decimal.RequireFromString("10.00"),
	}))

	// Hold the row lock in one transaction while a second transaction
	// attempts the same locked read; the second must observe the first
	// transaction's committed write.
	entered := make(chan struct{})
	done := make(chan error, 1)
	err := st.InTx(ctx, func(s Store) error {
		inv, err := s.GetInventoryForUpdate(ctx, product.ID)
		if err != nil {
			return err
		}
		go func() {
			done <- st.InTx(ctx, func(s2 Store) error {
				close(entered)
				inv2, err := s2.GetInventoryForUpdate(ctx, product.ID)
				if err != nil {
					return err
				}
				if !inv2.CurrentStock.Equal(decimal.RequireFromString("5")) {
					return fmt.Errorf("expected committed stock 5, got %s", inv2.CurrentStock)
				}
				return nil
			})
		}()
		<-entered
		// Give the second transaction time to reach the locked read.
		time.Sleep(100 * time.Millisecond)
		inv.CurrentStock = decimal.RequireFromString("5.00")
		return s.SaveInventory(ctx, inv)
	})
	require.NoError(t, err)
	require.NoError(t, <-done)
}

func TestListInventoriesBelowReorderPoint(t *testing.T) {
	st := getTestStore(t)
	ctx := context.Background()

	low := testProduct(fmt.Sprintf("low-%d", time.Now().UnixNano()))
	require.NoError(t, st.CreateProduct(ctx, low))
	min := decimal.RequireFromString("10.00")
	require.NoError(t, st.CreateInventory(ctx, &model.Inventory{
		ProductID:     low.ID,
		CurrentStock:  decimal.RequireFromString("9.00"),
		MinStockLevel: &min,
	}))

	noThreshold := testProduct(fmt.Sprintf("none-%d", time.Now().UnixNano()))
	require.NoError(t, st.CreateProduct(ctx, noThreshold))
	require.NoError(t, st.CreateInventory(ctx, &model.Inventory{
		ProductID:    noThreshold.ID,
		CurrentStock: decimal.RequireFromString("0.00"),
	}))

	rows, err := st.ListInventoriesBelowReorderPoint(ctx)
	require.NoError(t, err)

	ids := make(map[uint]bool, len(rows))
	for _, inv := range rows {
		ids[inv.ProductID] = true
	}
	assert.True(t, ids[low.ID])
	assert.False(t, ids[noThreshold.ID], "rows without a threshold are never flagged")
}
