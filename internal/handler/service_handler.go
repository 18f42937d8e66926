package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"garage-service/internal/model"
	"garage-service/pkg/database"
	"garage-service/pkg/logger"
	"garage-service/prometheus"
)

// ServiceRequest defines the structure for repair service creation/update requests
type ServiceRequest struct {
	Name            string          `json:"name" validate:"required"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	IsAvailable     *bool           `json:"is_available"`
}

// ListServices retrieves all repair services, optionally only available ones
func ListServices(c echo.Context) error {
	log := logger.FromEcho(c)

	query := database.GetDB().Order("service_id")
	if c.QueryParam("available") == "true" {
		query = query.Where("is_available = ?", true)
	}

	var services []model.RepairService
	if result := query.Find(&services); result.Error != nil {
		log.Error("Failed to list services", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve services"})
	}

	return c.JSON(http.StatusOK, services)
}

// GetService retrieves a single repair service by ID
func GetService(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var svc model.RepairService
	if result := database.GetDB().First(&svc, "service_id = ?", id); result.Error != nil {
		log.Warn("Service not found", zap.String("service_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Service not found"})
	}

	return c.JSON(http.StatusOK, svc)
}

// CreateService creates a new repair service offering
func CreateService(c echo.Context) error {
	log := logger.FromEcho(c)

	var req ServiceRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Price.Sign() <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be positive"})
	}
	if req.DurationMinutes <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_minutes must be positive"})
	}

	var count int64
	database.GetDB().Model(&model.RepairService{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Service with this name already exists",
		})
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	svc := model.RepairService{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price.Round(2),
		DurationMinutes: req.DurationMinutes,
		IsAvailable:     available,
	}
	if result := database.GetDB().Create(&svc); result.Error != nil {
		log.Error("Failed to create service", zap.String("name", req.Name), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create service"})
	}

	prometheus.RecordServiceOperation("create")
	log.Info("Service created successfully",
		zap.Uint("service_id", svc.ID),
		zap.String("name", svc.Name))
	return c.JSON(http.StatusCreated, svc)
}

// UpdateService updates an existing repair service
func UpdateService(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var req ServiceRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var svc model.RepairService
	if result := database.GetDB().First(&svc, "service_id = ?", id); result.Error != nil {
		log.Warn("Service not found for update", zap.String("service_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Service not found"})
	}

	if req.Name != "" && req.Name != svc.Name {
		var count int64
		database.GetDB().Model(&model.RepairService{}).
			Where("name = ? AND service_id != ?", req.Name, svc.ID).Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "Service with this name already exists",
			})
		}
		svc.Name = req.Name
	}
	if req.Description != "" {
		svc.Description = req.Description
	}
	if req.Price.Sign() > 0 {
		svc.Price = req.Price.Round(2)
	}
	if req.DurationMinutes > 0 {
		svc.DurationMinutes = req.DurationMinutes
	}
	if req.IsAvailable != nil {
		svc.IsAvailable = *req.IsAvailable
	}

	if result := database.GetDB().Save(&svc); result.Error != nil {
		log.Error("Failed to update service", zap.String("service_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update service"})
	}

	prometheus.RecordServiceOperation("update")
	return c.JSON(http.StatusOK, svc)
}

// DeleteService deletes a repair service
func DeleteService(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	result := database.GetDB().Delete(&model.RepairService{}, "service_id = ?", id)
	if result.Error != nil {
		log.Error("Failed to delete service", zap.String("service_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete service"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Service not found"})
	}

	prometheus.RecordServiceOperation("delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "Service deleted successfully"})
}
