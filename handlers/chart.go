package handlers

import (
	"net/http"
	"strconv"

	"ecoulement_app_go/db"
	"ecoulement_app_go/services"

	"github.com/labstack/echo/v4"
)

// ChartHandler renders the global flow-type distribution page
// GET /graphique
func ChartHandler(c echo.Context) error {
	stats, err := services.GetFlowDistribution(db.DB, parseDays(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute flow distribution")
	}

	return c.Render(http.StatusOK, "graphique.html", map[string]interface{}{
		"Title": "Répartition des écoulements",
		"Stats": stats,
	})
}

// GetFlowStatsHandler returns the flow-type distribution as JSON
// GET /api/flow-stats?days=90
func GetFlowStatsHandler(c echo.Context) error {
	stats, err := services.GetFlowDistribution(db.DB, parseDays(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute flow distribution")
	}
	return c.JSON(http.StatusOK, stats)
}

func parseDays(c echo.Context) int {
	days := 90
	if raw := c.QueryParam("days"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}
	return days
}
