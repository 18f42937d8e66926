package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductValidation(t *testing.T) {
	products := NewProductService(newFakeStore())
	ctx := context.Background()

	cases := []struct {
		name   string
		params CreateProductParams
	}{
		{"blank name", CreateProductParams{Name: "   ", SellingPrice: dec("10")}},
		{"zero price", CreateProductParams{Name: "Oil Filter", SellingPrice: dec("0")}},
		{"negative price", CreateProductParams{Name: "Oil Filter", SellingPrice: dec("-1")}},
		{"negative unit cost", CreateProductParams{Name: "Oil Filter", SellingPrice: dec("10"), UnitCost: decPtr("-1")}},
		{"cost above price", CreateProductParams{Name: "Oil Filter", SellingPrice: dec("10"), UnitCost: decPtr("10.01")}},
		{"negative initial stock", CreateProductParams{Name: "Oil Filter", SellingPrice: dec("10"), InitialStock: dec("-1")}},
		{"negative min stock", CreateProductParams{Name: "Oil Filter", SellingPrice: dec("10"), MinStockLevel: decPtr("-1")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := products.CreateProduct(ctx, tc.params)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestCreateProductPair(t *testing.T) {
	st := newFakeStore()
	st.addCategory(1, "Brakes")
	products := NewProductService(st)

	product, err := products.CreateProduct(context.Background(), CreateProductParams{
		Name:          "Brake Pad",
		SellingPrice:  dec("19.99"),
		UnitCost:      decPtr("12.50"),
		CategoryID:    uintPtr(1),
		InitialStock:  dec("50"),
		MinStockLevel: decPtr("10"),
	})
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	require.NotNil(t, product.Inventory)
	assert.Equal(t, product.ID, product.Inventory.ProductID)
	assert.True(t, product.Inventory.CurrentStock.Equal(dec("50")))

	// Inventory row exists iff the product row exists.
	inv, err := st.GetInventory(context.Background(), product.ID)
	require.NoError(t, err)
	assert.True(t, inv.CurrentStock.Equal(dec("50")))
}

func TestCreateProductConflict(t *testing.T) {
	st := newFakeStore()
	products := NewProductService(st)
	ctx := context.Background()

	params := CreateProductParams{Name: "Brake Pad", SellingPrice: dec("19.99"), InitialStock: dec("5")}
	_, err := products.CreateProduct(ctx, params)
	require.NoError(t, err)

	_, err = products.CreateProduct(ctx, params)
	assert.ErrorIs(t, err, ErrConflict)

	// Only one pair exists afterward.
	assert.Len(t, st.products, 1)
	assert.Len(t, st.inventories, 1)
}

func TestCreateProductUnknownCategory(t *testing.T) {
	products := NewProductService(newFakeStore())

	_, err := products.CreateProduct(context.Background(), CreateProductParams{
		Name:         "Brake Pad",
		SellingPrice: dec("19.99"),
		CategoryID:   uintPtr(42),
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateProductRollsBackOnInventoryFailure(t *testing.T) {
	st := newFakeStore()
	st.failInventoryCreate = errBoom
	products := NewProductService(st)

	_, err := products.CreateProduct(context.Background(), CreateProductParams{
		Name:         "Brake Pad",
		SellingPrice: dec("19.99"),
		InitialStock: dec("5"),
	})
	require.Error(t, err)

	// Neither half of the pair is visible after rollback.
	assert.Empty(t, st.products)
	assert.Empty(t, st.inventories)
}

func TestUpdateProduct(t *testing.T) {
	st := newFakeStore()
	st.addCategory(1, "Brakes")
	st.addCategory(2, "Filters")
	products := NewProductService(st)
	ctx := context.Background()

	created, err := products.CreateProduct(ctx, CreateProductParams{
		Name: "Brake Pad", SellingPrice: dec("19.99"), CategoryID: uintPtr(1), InitialStock: dec("5"),
	})
	require.NoError(t, err)
	_, err = products.CreateProduct(ctx, CreateProductParams{
		Name: "Oil Filter", SellingPrice: dec("8.99"),
	})
	require.NoError(t, err)

	t.Run("not found", func(t *testing.T) {
		_, err := products.UpdateProduct(ctx, 999, UpdateProductParams{Name: strPtr("X")})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("name conflict", func(t *testing.T) {
		_, err := products.UpdateProduct(ctx, created.ID, UpdateProductParams{Name: strPtr("Oil Filter")})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("same name is not a conflict", func(t *testing.T) {
		updated, err := products.UpdateProduct(ctx, created.ID, UpdateProductParams{Name: strPtr("Brake Pad")})
		require.NoError(t, err)
		assert.Equal(t, "Brake Pad", updated.Name)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := products.UpdateProduct(ctx, created.ID, UpdateProductParams{CategoryID: uintPtr(42)})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("full update leaves inventory alone", func(t *testing.T) {
		updated, err := products.UpdateProduct(ctx, created.ID, UpdateProductParams{
			Name:         strPtr("Brake Pad - Premium"),
			SellingPrice: decPtr("21.99"),
			UnitCost:     decPtr("13.00"),
			CategoryID:   uintPtr(2),
		})
		require.NoError(t, err)
		assert.Equal(t, "Brake Pad - Premium", updated.Name)
		assert.True(t, updated.SellingPrice.Equal(dec("21.99")))

		inv, err := st.GetInventory(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, inv.CurrentStock.Equal(dec("5")))
	})
}

func TestDeleteProductIdempotent(t *testing.T) {
	st := newFakeStore()
	products := NewProductService(st)
	ctx := context.Background()

	created, err := products.CreateProduct(ctx, CreateProductParams{
		Name: "Brake Pad", SellingPrice: dec("19.99"), InitialStock: dec("5"),
	})
	require.NoError(t, err)

	deleted, err := products.DeleteProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Both rows are gone together.
	assert.Empty(t, st.products)
	assert.Empty(t, st.inventories)

	deleted, err = products.DeleteProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "second delete reports false without error")
}

func TestGetProduct(t *testing.T) {
	st := newFakeStore()
	products := NewProductService(st)
	ctx := context.Background()

	created, err := products.CreateProduct(ctx, CreateProductParams{
		Name: "Brake Pad", SellingPrice: dec("19.99"),
	})
	require.NoError(t, err)

	got, err := products.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	_, err = products.GetProduct(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func uintPtr(v uint) *uint {
	return &v
}

func strPtr(s string) *string {
	return &s
}
