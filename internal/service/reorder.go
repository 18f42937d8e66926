package service

import (
	"context"

	"go.uber.org/zap"

	"garage-service/internal/model"
	"garage-service/internal/store"
	"garage-service/pkg/logger"
)

// Notifier receives reorder alerts. Implementations live in internal/notify.
type Notifier interface {
	NotifyReorder(ctx context.Context, inv *model.Inventory) error
}

// ReorderEvaluator flags products at or below their configured reorder
// point. Notification is best-effort and non-deduplicated: every
// qualifying decrement re-notifies.
type ReorderEvaluator struct {
	store    store.TxStore
	notifier Notifier
}

func NewReorderEvaluator(st store.TxStore, notifier Notifier) *ReorderEvaluator {
	return &ReorderEvaluator{store: st, notifier: notifier}
}

// ListProductsNeedingReorder returns the ids of products whose stock is at
// or below min_stock_level. Products without a threshold are never
// reported. Order follows product id.
func (e *ReorderEvaluator) ListProductsNeedingReorder(ctx context.Context) ([]uint, error) {
	rows, err := e.store.ListInventoriesBelowReorderPoint(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(rows))
	for _, inv := range rows {
		ids = append(ids, inv.ProductID)
	}
	return ids, nil
}

// CheckAndNotify emits a reorder alert when the record is at or below its
// threshold. Failures are logged and swallowed; they must never surface
// to the caller or roll back the stock mutation that triggered the check.
func (e *ReorderEvaluator) CheckAndNotify(ctx context.Context, inv *model.Inventory) {
	if inv == nil || !inv.NeedsReorder() {
		return
	}
	if err := e.notifier.NotifyReorder(ctx, inv); err != nil {
		logger.FromContext(ctx).Warn("Reorder notification failed",
			zap.Uint("product_id", inv.ProductID),
			zap.String("current_stock", inv.CurrentStock.StringFixed(2)),
			zap.Error(err))
	}
}
