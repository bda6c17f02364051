package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"ecoulement_app_go/db"
	"ecoulement_app_go/services"

	"github.com/labstack/echo/v4"
)

// stationDetailLimit bounds the observation and campaign lists on the
// detail page, matching the upstream API page size used for one station
const stationDetailLimit = 200

// StationHandler renders the detail page of one station with its cached
// observations and campaigns. When the cache is empty the Hub'eau API is
// queried once to warm it; if that fails the page still renders with empty
// sections.
// GET /station/:code
func StationHandler(c echo.Context) error {
	station, err := services.GetStationByCode(db.DB, c.Param("code"))
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Station not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch station")
	}

	observations, err := services.GetCachedObservations(db.DB, station.ID, stationDetailLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch observations")
	}

	// Live fallback: warm the cache on first visit
	if len(observations) == 0 && HubeauClient != nil {
		if err := services.RefreshStationCache(db.DB, HubeauClient, station, stationDetailLimit); err != nil {
			log.Printf("[WARNING] Live refresh failed for station %s: %v", station.Code, err)
		} else {
			observations, _ = services.GetCachedObservations(db.DB, station.ID, stationDetailLimit)
		}
	}

	campagnes, err := services.GetCachedCampagnes(db.DB, station.ID, 50)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch campagnes")
	}

	return c.Render(http.StatusOK, "station.html", map[string]interface{}{
		"Title":        station.Name,
		"Station":      station,
		"Observations": observations,
		"Campagnes":    campagnes,
	})
}

// StationsExplorerHandler renders the station explorer with filters
// GET /stations?region=&departement=&search=
func StationsExplorerHandler(c echo.Context) error {
	filter := services.StationFilter{
		RegionName:      c.QueryParam("region"),
		DepartementName: c.QueryParam("departement"),
		Search:          c.QueryParam("search"),
	}

	stations, err := services.ListStations(db.DB, filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list stations")
	}

	options, err := services.GetStationFilterOptions(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch filter options")
	}

	return c.Render(http.StatusOK, "stations.html", map[string]interface{}{
		"Title":    "Stations",
		"Stations": stations,
		"Options":  options,
		"Filter":   filter,
	})
}

// StationPDFHandler streams the printable factsheet of a station
// GET /station/:code/pdf
func StationPDFHandler(c echo.Context) error {
	station, err := services.GetStationByCode(db.DB, c.Param("code"))
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Station not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch station")
	}

	observations, err := services.GetCachedObservations(db.DB, station.ID, 30)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch observations")
	}

	pdf, err := services.GenerateStationFactsheet(station, observations)
	if err != nil {
		log.Printf("[WARNING] Factsheet generation failed for %s: %v", station.Code, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate PDF")
	}

	c.Response().Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=station_%s.pdf", station.Code))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
