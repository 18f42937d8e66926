package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"garage-service/internal/service"
	"garage-service/pkg/logger"
	"garage-service/prometheus"
)

// ProductRequest defines the structure for product creation requests
type ProductRequest struct {
	Name          string           `json:"name" validate:"required"`
	SellingPrice  decimal.Decimal  `json:"selling_price" validate:"required"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
	CategoryID    *uint            `json:"category_id"`
	InitialStock  decimal.Decimal  `json:"initial_stock"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level"`
}

// ProductUpdateRequest defines the structure for partial product updates
type ProductUpdateRequest struct {
	Name         *string          `json:"name"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
	CategoryID   *uint            `json:"category_id"`
}

// ProductHandler exposes the product lifecycle over HTTP.
type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ListProducts handles retrieving all products with optional filtering
func (h *ProductHandler) ListProducts(c echo.Context) error {
	log := logger.FromEcho(c)

	var categoryID *uint
	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			log.Warn("Invalid category_id parameter", zap.String("value", raw))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category_id"})
		}
		cid := uint(id)
		categoryID = &cid
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = 100
	}

	products, err := h.products.ListProducts(logger.RequestContext(c), categoryID, offset, limit)
	if err != nil {
		return writeServiceError(c, err, "Failed to list products")
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func (h *ProductHandler) GetProduct(c echo.Context) error {
	productID, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	product, err := h.products.GetProduct(logger.RequestContext(c), productID)
	if err != nil {
		return writeServiceError(c, err, "Failed to retrieve product")
	}

	prometheus.RecordProductOperation("get")
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles atomic creation of a product and its inventory record
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	log.Info("Product creation request",
		zap.String("name", req.Name),
		zap.String("selling_price", req.SellingPrice.StringFixed(2)),
		zap.String("initial_stock", req.InitialStock.StringFixed(2)))

	product, err := h.products.CreateProduct(logger.RequestContext(c), service.CreateProductParams{
		Name:          req.Name,
		SellingPrice:  req.SellingPrice,
		UnitCost:      req.UnitCost,
		CategoryID:    req.CategoryID,
		InitialStock:  req.InitialStock,
		MinStockLevel: req.MinStockLevel,
	})
	if err != nil {
		return writeServiceError(c, err, "Failed to create product")
	}

	prometheus.RecordProductOperation("create")
	prometheus.UpdateProductStock(strconv.FormatUint(uint64(product.ID), 10),
		product.Inventory.CurrentStock.InexactFloat64())
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles partial updates of product fields
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	productID, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req ProductUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	product, err := h.products.UpdateProduct(logger.RequestContext(c), productID, service.UpdateProductParams{
		Name:         req.Name,
		SellingPrice: req.SellingPrice,
		UnitCost:     req.UnitCost,
		CategoryID:   req.CategoryID,
	})
	if err != nil {
		return writeServiceError(c, err, "Failed to update product")
	}

	prometheus.RecordProductOperation("update")
	log.Info("Product updated successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product together with its inventory record
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	productID, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	deleted, err := h.products.DeleteProduct(logger.RequestContext(c), productID)
	if err != nil {
		return writeServiceError(c, err, "Failed to delete product")
	}
	if !deleted {
		log.Warn("Product not found for deletion", zap.Uint("product_id", productID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	prometheus.RecordProductOperation("delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

func parseIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

// writeServiceError maps service errors onto HTTP status codes with a
// human-readable message.
func writeServiceError(c echo.Context, err error, fallback string) error {
	log := logger.FromEcho(c)

	var insufficient *service.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     insufficient.Error(),
			"current":   insufficient.Current.StringFixed(2),
			"requested": insufficient.Requested.StringFixed(2),
		})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		log.Error(fallback, zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
	}
}
