package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"garage-service/internal/model"
	"garage-service/internal/store"
	"garage-service/pkg/logger"
)

// CreateProductParams carries the inputs for an atomic product+inventory
// creation.
type CreateProductParams struct {
	Name          string
	SellingPrice  decimal.Decimal
	UnitCost      *decimal.Decimal
	CategoryID    *uint
	InitialStock  decimal.Decimal
	MinStockLevel *decimal.Decimal
}

// UpdateProductParams carries a partial product update. Nil fields are
// left untouched. Inventory is never modified here.
type UpdateProductParams struct {
	Name         *string
	SellingPrice *decimal.Decimal
	UnitCost     *decimal.Decimal
	CategoryID   *uint
}

// ProductService coordinates the product↔inventory 1:1 lifecycle: a
// product row and its inventory row are created and deleted as one unit,
// and no intermediate state is externally observable.
type ProductService struct {
	store store.TxStore
}

func NewProductService(st store.TxStore) *ProductService {
	return &ProductService{store: st}
}

// CreateProduct validates inputs against the catalog, then inserts the
// product row and its inventory row in a single transaction. Either both
// commit or neither is visible.
func (p *ProductService) CreateProduct(ctx context.Context, params CreateProductParams) (*model.Product, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, invalidf("product name cannot be blank")
	}
	if params.SellingPrice.Sign() <= 0 {
		return nil, invalidf("selling price must be positive")
	}
	if params.UnitCost != nil {
		if params.UnitCost.IsNegative() {
			return nil, invalidf("unit cost cannot be negative")
		}
		if params.UnitCost.GreaterThan(params.SellingPrice) {
			return nil, invalidf("unit cost cannot exceed selling price")
		}
	}
	if params.InitialStock.IsNegative() {
		return nil, invalidf("initial stock cannot be negative")
	}
	if params.MinStockLevel != nil && params.MinStockLevel.IsNegative() {
		return nil, invalidf("min stock level cannot be negative")
	}

	exists, err := p.store.ProductExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflictf("product with name %q already exists", name)
	}
	if params.CategoryID != nil {
		ok, err := p.store.CategoryExists(ctx, *params.CategoryID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, invalidf("category %d does not exist", *params.CategoryID)
		}
	}

	product := &model.Product{
		Name:         name,
		SellingPrice: params.SellingPrice.Round(2),
		UnitCost:     roundPtr(params.UnitCost),
		CategoryID:   params.CategoryID,
	}
	err = p.store.InTx(ctx, func(s store.Store) error {
		if err := s.CreateProduct(ctx, product); err != nil {
			// The unique index is the backstop for a create racing the
			// pre-check above.
			if errors.Is(err, store.ErrDuplicate) {
				return conflictf("product with name %q already exists", name)
			}
			return err
		}
		inv := &model.Inventory{
			ProductID:     product.ID,
			CurrentStock:  params.InitialStock.Round(2),
			MinStockLevel: roundPtr(params.MinStockLevel),
		}
		if err := s.CreateInventory(ctx, inv); err != nil {
			return err
		}
		product.Inventory = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("initial_stock", product.Inventory.CurrentStock.StringFixed(2)))
	return product, nil
}

// GetProduct retrieves a product with its category and inventory snapshot.
func (p *ProductService) GetProduct(ctx context.Context, productID uint) (*model.Product, error) {
	product, err := p.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundf("product %d not found", productID)
		}
		return nil, err
	}
	return product, nil
}

// ListProducts returns products, optionally filtered by category, with
// offset/limit pagination.
func (p *ProductService) ListProducts(ctx context.Context, categoryID *uint, offset, limit int) ([]model.Product, error) {
	if categoryID != nil {
		ok, err := p.store.CategoryExists(ctx, *categoryID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, invalidf("category %d does not exist", *categoryID)
		}
	}
	return p.store.ListProducts(ctx, categoryID, offset, limit)
}

// UpdateProduct applies a partial update to product fields. A name change
// re-checks uniqueness against every other product; a category change
// re-validates existence.
func (p *ProductService) UpdateProduct(ctx context.Context, productID uint, params UpdateProductParams) (*model.Product, error) {
	var updated *model.Product
	err := p.store.InTx(ctx, func(s store.Store) error {
		product, err := s.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFoundf("product %d not found", productID)
			}
			return err
		}

		if params.Name != nil {
			name := strings.TrimSpace(*params.Name)
			if name == "" {
				return invalidf("product name cannot be blank")
			}
			if name != product.Name {
				taken, err := s.ProductNameInUse(ctx, name, productID)
				if err != nil {
					return err
				}
				if taken {
					return conflictf("product with name %q already exists", name)
				}
			}
			product.Name = name
		}
		if params.SellingPrice != nil {
			if params.SellingPrice.Sign() <= 0 {
				return invalidf("selling price must be positive")
			}
			product.SellingPrice = params.SellingPrice.Round(2)
		}
		if params.UnitCost != nil {
			if params.UnitCost.IsNegative() {
				return invalidf("unit cost cannot be negative")
			}
			if params.UnitCost.GreaterThan(product.SellingPrice) {
				return invalidf("unit cost cannot exceed selling price")
			}
			product.UnitCost = roundPtr(params.UnitCost)
		}
		if params.CategoryID != nil {
			ok, err := s.CategoryExists(ctx, *params.CategoryID)
			if err != nil {
				return err
			}
			if !ok {
				return invalidf("category %d does not exist", *params.CategoryID)
			}
			product.CategoryID = params.CategoryID
		}

		if err := s.SaveProduct(ctx, product); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return conflictf("product with name %q already exists", product.Name)
			}
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProduct removes the inventory row and then the product row in one
// transaction. A missing product reports false without error, so deletion
// is idempotent from the caller's perspective.
func (p *ProductService) DeleteProduct(ctx context.Context, productID uint) (bool, error) {
	deleted := false
	err := p.store.InTx(ctx, func(s store.Store) error {
		// Inventory first: the ownership invariant must hold even
		// transiently inside the transaction.
		if _, err := s.DeleteInventory(ctx, productID); err != nil {
			return err
		}
		rows, err := s.DeleteProduct(ctx, productID)
		if err != nil {
			return err
		}
		deleted = rows > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	if deleted {
		logger.FromContext(ctx).Info("Product deleted", zap.Uint("product_id", productID))
	}
	return deleted, nil
}

func roundPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := d.Round(2)
	return &r
}
