package notify

import (
	"context"

	"go.uber.org/zap"

	"garage-service/internal/model"
)

// LogNotifier writes reorder alerts to the service log. This is the
// default sink when no external channel is configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyReorder(_ context.Context, inv *model.Inventory) error {
	n.log.Warn("Product at or below reorder point",
		zap.Uint("product_id", inv.ProductID),
		zap.String("current_stock", inv.CurrentStock.StringFixed(2)),
		zap.String("min_stock_level", inv.MinStockLevel.StringFixed(2)))
	return nil
}
