package handlers

import (
	"net/http"

	"ecoulement_app_go/db"
	"ecoulement_app_go/services"

	"github.com/labstack/echo/v4"
)

// HealthHandler runs the database integrity checks and reports them
// GET /api/health
func HealthHandler(c echo.Context) error {
	report, err := services.CheckIntegrity(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Health check failed to run")
	}

	status := http.StatusOK
	if !report.OK() {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, report)
}
