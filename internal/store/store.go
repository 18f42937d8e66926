package store

import (
	"context"
	"errors"

	"garage-service/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert or update violates a unique index.
var ErrDuplicate = errors.New("duplicate record")

// Store is the narrow persistence surface the services operate against.
// Implementations bound to a transaction apply every call within it.
type Store interface {
	// Catalog lookups.
	GetProduct(ctx context.Context, productID uint) (*model.Product, error)
	ProductExistsByName(ctx context.Context, name string) (bool, error)
	ProductNameInUse(ctx context.Context, name string, excludeID uint) (bool, error)
	CategoryExists(ctx context.Context, categoryID uint) (bool, error)
	ListProducts(ctx context.Context, categoryID *uint, offset, limit int) ([]model.Product, error)

	// Product writes.
	CreateProduct(ctx context.Context, p *model.Product) error
	SaveProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, productID uint) (int64, error)

	// Inventory reads and writes. GetInventoryForUpdate must take a row
	// lock so concurrent mutations of the same product serialize.
	GetInventory(ctx context.Context, productID uint) (*model.Inventory, error)
	GetInventoryForUpdate(ctx context.Context, productID uint) (*model.Inventory, error)
	CreateInventory(ctx context.Context, inv *model.Inventory) error
	SaveInventory(ctx context.Context, inv *model.Inventory) error
	DeleteInventory(ctx context.Context, productID uint) (int64, error)
	ListInventoriesBelowReorderPoint(ctx context.Context) ([]model.Inventory, error)
}

// TxStore runs a function within a single transaction. The callback
// receives a Store bound to that transaction; returning an error rolls
// everything back, including cancellation of the caller's context.
type TxStore interface {
	Store
	InTx(ctx context.Context, fn func(Store) error) error
}
