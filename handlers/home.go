package handlers

import (
	"errors"
	"net/http"

	"ecoulement_app_go/db"
	"ecoulement_app_go/services"

	"github.com/labstack/echo/v4"
)

// HomeHandler renders the regions index, the entry point of the drill-down
// GET /
func HomeHandler(c echo.Context) error {
	regions, err := services.GetRegions(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch regions")
	}

	return c.Render(http.StatusOK, "index.html", map[string]interface{}{
		"Title":   "Écoulement des cours d'eau",
		"Regions": regions,
	})
}

// RegionHandler renders the départements of a region
// GET /region/:code
func RegionHandler(c echo.Context) error {
	code := c.Param("code")

	region, err := services.GetRegionByCode(db.DB, code)
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Region not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch region")
	}

	departements, err := services.GetDepartementsByRegionCode(db.DB, code)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch departements")
	}

	return c.Render(http.StatusOK, "region.html", map[string]interface{}{
		"Title":        region.Name,
		"Region":       region,
		"Departements": departements,
	})
}

// DepartementHandler renders the communes of a département
// GET /departement/:code
func DepartementHandler(c echo.Context) error {
	code := c.Param("code")

	departement, err := services.GetDepartementByCode(db.DB, code)
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Departement not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch departement")
	}

	communes, err := services.GetCommunesByDepartementCode(db.DB, code, services.DefaultListLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch communes")
	}

	return c.Render(http.StatusOK, "departement.html", map[string]interface{}{
		"Title":       departement.Name,
		"Departement": departement,
		"Communes":    communes,
	})
}

// CommuneHandler renders the stations of a commune
// GET /commune/:code
func CommuneHandler(c echo.Context) error {
	code := c.Param("code")

	commune, err := services.GetCommuneByCode(db.DB, code)
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Commune not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch commune")
	}

	stations, err := services.GetStationsByCommuneCode(db.DB, code, services.DefaultListLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch stations")
	}

	return c.Render(http.StatusOK, "commune.html", map[string]interface{}{
		"Title":    commune.Name,
		"Commune":  commune,
		"Stations": stations,
	})
}
