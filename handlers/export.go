package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"ecoulement_app_go/db"
	"ecoulement_app_go/services"

	"github.com/labstack/echo/v4"
)

func exportFilter(c echo.Context) services.StationFilter {
	return services.StationFilter{
		RegionName:      c.QueryParam("region"),
		DepartementName: c.QueryParam("departement"),
		Search:          c.QueryParam("search"),
	}
}

// ExportStationsCSVHandler streams the station listing as CSV
// GET /export/stations.csv
func ExportStationsCSVHandler(c echo.Context) error {
	header, records, err := services.StationCSVRows(db.DB, exportFilter(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build export")
	}

	c.Response().Header().Set("Content-Type", "text/csv; charset=utf-8")
	c.Response().Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=stations_%s.csv", time.Now().Format("20060102_150405")))
	c.Response().WriteHeader(http.StatusOK)

	writer := csv.NewWriter(c.Response().Writer)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return err
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// ExportStationsXLSXHandler streams the station listing as an XLSX workbook
// GET /export/stations.xlsx
func ExportStationsXLSXHandler(c echo.Context) error {
	buf, err := services.GenerateStationWorkbook(db.DB, exportFilter(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build export")
	}

	c.Response().Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=stations_%s.xlsx", time.Now().Format("20060102_150405")))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
