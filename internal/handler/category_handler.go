package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"garage-service/internal/model"
	"garage-service/pkg/database"
	"garage-service/pkg/logger"
	"garage-service/prometheus"
)

// CategoryRequest defines the structure for category creation/update requests
type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// ListCategories retrieves all product categories
func ListCategories(c echo.Context) error {
	log := logger.FromEcho(c)

	var categories []model.Category
	if result := database.GetDB().Order("category_id").Find(&categories); result.Error != nil {
		log.Error("Failed to list categories", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve categories",
		})
	}

	return c.JSON(http.StatusOK, categories)
}

// GetCategory retrieves a single category by ID
func GetCategory(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var category model.Category
	if result := database.GetDB().First(&category, "category_id = ?", id); result.Error != nil {
		log.Warn("Category not found", zap.String("category_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Category not found",
		})
	}

	return c.JSON(http.StatusOK, category)
}

// CreateCategory creates a new category
func CreateCategory(c echo.Context) error {
	log := logger.FromEcho(c)

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	var count int64
	database.GetDB().Model(&model.Category{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		log.Warn("Category with this name already exists", zap.String("name", req.Name))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Category with this name already exists",
		})
	}

	category := model.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if result := database.GetDB().Create(&category); result.Error != nil {
		log.Error("Failed to create category", zap.String("name", req.Name), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create category"})
	}

	prometheus.RecordCategoryOperation("create")
	log.Info("Category created successfully",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory updates an existing category
func UpdateCategory(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var category model.Category
	if result := database.GetDB().First(&category, "category_id = ?", id); result.Error != nil {
		log.Warn("Category not found for update", zap.String("category_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	}

	if req.Name != "" && req.Name != category.Name {
		var count int64
		database.GetDB().Model(&model.Category{}).
			Where("name = ? AND category_id != ?", req.Name, category.ID).Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "Category with this name already exists",
			})
		}
		category.Name = req.Name
	}
	category.Description = req.Description

	if result := database.GetDB().Save(&category); result.Error != nil {
		log.Error("Failed to update category", zap.String("category_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update category"})
	}

	prometheus.RecordCategoryOperation("update")
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory deletes a category. Products keep their category_id
// reference check at the service layer, so a category referenced by
// products cannot be removed.
func DeleteCategory(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var inUse int64
	database.GetDB().Model(&model.Product{}).Where("category_id = ?", id).Count(&inUse)
	if inUse > 0 {
		log.Warn("Category still referenced by products",
			zap.String("category_id", id),
			zap.Int64("products", inUse))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Category is still referenced by products",
		})
	}

	result := database.GetDB().Delete(&model.Category{}, "category_id = ?", id)
	if result.Error != nil {
		log.Error("Failed to delete category", zap.String("category_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete category"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	}

	prometheus.RecordCategoryOperation("delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted successfully"})
}
