package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"garage-service/internal/service"
	"garage-service/pkg/logger"
	"garage-service/prometheus"
)

// StockSetRequest overwrites current stock to an explicit value.
type StockSetRequest struct {
	CurrentStock decimal.Decimal `json:"current_stock"`
}

// StockMoveRequest carries a signed stock mutation quantity.
type StockMoveRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	// RecordRestockDate defaults to true for restocks; pass false for
	// corrections that should not stamp last_restock_date.
	RecordRestockDate *bool `json:"record_restock_date,omitempty"`
}

// InventoryHandler exposes the stock ledger over HTTP.
type InventoryHandler struct {
	ledger  *service.StockLedger
	reorder *service.ReorderEvaluator
}

func NewInventoryHandler(ledger *service.StockLedger, reorder *service.ReorderEvaluator) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, reorder: reorder}
}

// SetStock overwrites current stock (admin correction).
func (h *InventoryHandler) SetStock(c echo.Context) error {
	log := logger.FromEcho(c)

	productID, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req StockSetRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	inv, err := h.ledger.SetStock(logger.RequestContext(c), productID, req.CurrentStock)
	if err != nil {
		prometheus.RecordInventoryOperation("set", "error")
		return writeServiceError(c, err, "Failed to set stock")
	}

	prometheus.RecordInventoryOperation("set", "ok")
	prometheus.UpdateProductStock(strconv.FormatUint(uint64(productID), 10),
		inv.CurrentStock.InexactFloat64())
	log.Info("Stock overwritten",
		zap.Uint("product_id", productID),
		zap.String("current_stock", inv.CurrentStock.StringFixed(2)))
	return c.JSON(http.StatusOK, inv)
}

// Restock records incoming stock.
func (h *InventoryHandler) Restock(c echo.Context) error {
	log := logger.FromEcho(c)

	productID, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req StockMoveRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	recordDate := true
	if req.RecordRestockDate != nil {
		recordDate = *req.RecordRestockDate
	}

	inv, err := h.ledger.IncrementStock(logger.RequestContext(c), productID, req.Quantity, recordDate)
	if err != nil {
		prometheus.RecordInventoryOperation("restock", "error")
		return writeServiceError(c, err, "Failed to restock")
	}

	prometheus.RecordInventoryOperation("restock", "ok")
	prometheus.UpdateProductStock(strconv.FormatUint(uint64(productID), 10),
		inv.CurrentStock.InexactFloat64())
	log.Info("Stock incremented",
		zap.Uint("product_id", productID),
		zap.String("quantity", req.Quantity.StringFixed(2)),
		zap.String("current_stock", inv.CurrentStock.StringFixed(2)))
	return c.JSON(http.StatusOK, inv)
}

// Deduct records outgoing stock (sale or loss).
func (h *InventoryHandler) Deduct(c echo.Context) error {
	log := logger.FromEcho(c)

	productID, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req StockMoveRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	inv, err := h.ledger.DecrementStock(logger.RequestContext(c), productID, req.Quantity)
	if err != nil {
		prometheus.RecordInventoryOperation("deduct", "error")
		return writeServiceError(c, err, "Failed to deduct stock")
	}

	prometheus.RecordInventoryOperation("deduct", "ok")
	prometheus.UpdateProductStock(strconv.FormatUint(uint64(productID), 10),
		inv.CurrentStock.InexactFloat64())
	if inv.NeedsReorder() {
		prometheus.ReorderAlertsCounter.Inc()
	}
	log.Info("Stock deducted",
		zap.Uint("product_id", productID),
		zap.String("quantity", req.Quantity.StringFixed(2)),
		zap.String("current_stock", inv.CurrentStock.StringFixed(2)))
	return c.JSON(http.StatusOK, inv)
}

// ListReorder returns the ids of products at or below their reorder point.
func (h *InventoryHandler) ListReorder(c echo.Context) error {
	ids, err := h.reorder.ListProductsNeedingReorder(logger.RequestContext(c))
	if err != nil {
		return writeServiceError(c, err, "Failed to check reorder levels")
	}
	return c.JSON(http.StatusOK, ids)
}
