package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"garage-service/pkg/database"
)

// Health reports service liveness and database reachability.
func Health(c echo.Context) error {
	sqlDB, err := database.GetDB().DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status":   "degraded",
			"database": "unreachable",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
