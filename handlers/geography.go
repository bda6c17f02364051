package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"ecoulement_app_go/db"
	"ecoulement_app_go/services"

	"github.com/labstack/echo/v4"
)

type codeNamePair struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// optionsHTML builds a select-options fragment; labels pass through the
// sanitizer because the names originate from the upstream API
func optionsHTML(placeholder string, pairs []codeNamePair) string {
	html := `<option value="">` + placeholder + `</option>`
	for _, p := range pairs {
		html += `<option value="` + services.SanitizeLabel(p.Code) + `">` +
			services.SanitizeLabel(p.Name) + ` (` + services.SanitizeLabel(p.Code) + `)</option>`
	}
	return html
}

// GetRegionsHandler returns all regions
// GET /api/regions
func GetRegionsHandler(c echo.Context) error {
	regions, err := services.GetRegions(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch regions")
	}

	pairs := make([]codeNamePair, 0, len(regions))
	for _, r := range regions {
		pairs = append(pairs, codeNamePair{r.Code, r.Name})
	}

	if isHTMX(c) {
		return c.HTML(http.StatusOK, optionsHTML("Choisir une région", pairs))
	}
	return c.JSON(http.StatusOK, pairs)
}

// GetDepartementsHandler returns the départements of a region
// GET /api/departements?region_code=xxx
func GetDepartementsHandler(c echo.Context) error {
	regionCode := c.QueryParam("region_code")
	if regionCode == "" {
		if isHTMX(c) {
			return c.HTML(http.StatusOK, `<option value="">Choisir un département</option>`)
		}
		return echo.NewHTTPError(http.StatusBadRequest, "region_code is required")
	}

	departements, err := services.GetDepartementsByRegionCode(db.DB, regionCode)
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Region not found")
	}
	if err != nil {
		if isHTMX(c) {
			return c.HTML(http.StatusOK, `<option value="">Erreur de chargement</option>`)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch departements")
	}

	pairs := make([]codeNamePair, 0, len(departements))
	for _, d := range departements {
		pairs = append(pairs, codeNamePair{d.Code, d.Name})
	}

	if isHTMX(c) {
		return c.HTML(http.StatusOK, optionsHTML("Choisir un département", pairs))
	}
	return c.JSON(http.StatusOK, pairs)
}

// GetCommunesHandler returns the communes of a département
// GET /api/communes?departement_code=xxx
func GetCommunesHandler(c echo.Context) error {
	departementCode := c.QueryParam("departement_code")
	if departementCode == "" {
		if isHTMX(c) {
			return c.HTML(http.StatusOK, `<option value="">Choisir une commune</option>`)
		}
		return echo.NewHTTPError(http.StatusBadRequest, "departement_code is required")
	}

	communes, err := services.GetCommunesByDepartementCode(db.DB, departementCode, parseLimit(c))
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Departement not found")
	}
	if err != nil {
		if isHTMX(c) {
			return c.HTML(http.StatusOK, `<option value="">Erreur de chargement</option>`)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch communes")
	}

	pairs := make([]codeNamePair, 0, len(communes))
	for _, commune := range communes {
		pairs = append(pairs, codeNamePair{commune.Code, commune.Name})
	}

	if isHTMX(c) {
		return c.HTML(http.StatusOK, optionsHTML("Choisir une commune", pairs))
	}
	return c.JSON(http.StatusOK, pairs)
}

// GetStationsHandler returns the stations of a commune
// GET /api/stations?commune_code=xxx
func GetStationsHandler(c echo.Context) error {
	communeCode := c.QueryParam("commune_code")
	if communeCode == "" {
		if isHTMX(c) {
			return c.HTML(http.StatusOK, `<option value="">Choisir une station</option>`)
		}
		return echo.NewHTTPError(http.StatusBadRequest, "commune_code is required")
	}

	stations, err := services.GetStationsByCommuneCode(db.DB, communeCode, parseLimit(c))
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Commune not found")
	}
	if err != nil {
		if isHTMX(c) {
			return c.HTML(http.StatusOK, `<option value="">Erreur de chargement</option>`)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch stations")
	}

	pairs := make([]codeNamePair, 0, len(stations))
	for _, s := range stations {
		pairs = append(pairs, codeNamePair{s.Code, s.Name})
	}

	if isHTMX(c) {
		return c.HTML(http.StatusOK, optionsHTML("Choisir une station", pairs))
	}
	return c.JSON(http.StatusOK, pairs)
}

// maxListLimit caps client-supplied ?limit= values
const maxListLimit = 500

func parseLimit(c echo.Context) int {
	limit := services.DefaultListLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= maxListLimit {
			limit = n
		}
	}
	return limit
}
