package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"garage-service/internal/model"
	"garage-service/internal/store"
)

// StockLedger owns the current-stock value per product. Every mutation is
// a locked read-modify-write inside its own transaction, so the
// non-negativity invariant holds under concurrent callers without any
// in-process locking.
type StockLedger struct {
	store   store.TxStore
	reorder *ReorderEvaluator
}

func NewStockLedger(st store.TxStore, reorder *ReorderEvaluator) *StockLedger {
	return &StockLedger{store: st, reorder: reorder}
}

// SetStock overwrites current stock unconditionally (admin correction).
func (l *StockLedger) SetStock(ctx context.Context, productID uint, newStock decimal.Decimal) (*model.Inventory, error) {
	if newStock.IsNegative() {
		return nil, invalidf("stock cannot be negative")
	}

	var updated *model.Inventory
	err := l.store.InTx(ctx, func(s store.Store) error {
		inv, err := s.GetInventoryForUpdate(ctx, productID)
		if err != nil {
			return mapInventoryErr(err, productID)
		}
		inv.CurrentStock = newStock.Round(2)
		if err := s.SaveInventory(ctx, inv); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// IncrementStock adds quantity to current stock. When recordRestockDate is
// set, last_restock_date is stamped with today as part of the same update.
func (l *StockLedger) IncrementStock(ctx context.Context, productID uint, quantity decimal.Decimal, recordRestockDate bool) (*model.Inventory, error) {
	if quantity.Sign() <= 0 {
		return nil, invalidf("quantity must be positive")
	}

	var updated *model.Inventory
	err := l.store.InTx(ctx, func(s store.Store) error {
		inv, err := s.GetInventoryForUpdate(ctx, productID)
		if err != nil {
			return mapInventoryErr(err, productID)
		}
		inv.CurrentStock = inv.CurrentStock.Add(quantity.Round(2))
		if recordRestockDate {
			today := time.Now().Truncate(24 * time.Hour)
			inv.LastRestockDate = &today
		}
		if err := s.SaveInventory(ctx, inv); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DecrementStock subtracts quantity from current stock. A decrement that
// would take stock negative fails with InsufficientStockError and leaves
// the row untouched. On success the reorder check runs synchronously
// before returning; its outcome never affects the committed mutation.
func (l *StockLedger) DecrementStock(ctx context.Context, productID uint, quantity decimal.Decimal) (*model.Inventory, error) {
	if quantity.Sign() <= 0 {
		return nil, invalidf("quantity must be positive")
	}
	quantity = quantity.Round(2)

	var updated *model.Inventory
	err := l.store.InTx(ctx, func(s store.Store) error {
		inv, err := s.GetInventoryForUpdate(ctx, productID)
		if err != nil {
			return mapInventoryErr(err, productID)
		}
		if inv.CurrentStock.LessThan(quantity) {
			return &InsufficientStockError{
				ProductID: productID,
				Current:   inv.CurrentStock,
				Requested: quantity,
			}
		}
		inv.CurrentStock = inv.CurrentStock.Sub(quantity)
		if err := s.SaveInventory(ctx, inv); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.reorder.CheckAndNotify(ctx, updated)
	return updated, nil
}

func mapInventoryErr(err error, productID uint) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFoundf("inventory record not found for product %d", productID)
	}
	return err
}
