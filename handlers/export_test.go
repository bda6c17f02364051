package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestExportStationsCSVHandler(t *testing.T) {
	testDB := setupTestDB(t)
	seedDrillDown(t, testDB)

	t.Run("streams the station listing", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/export/stations.csv", nil)

		err := ExportStationsCSVHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=stations_")

		records, err := csv.NewReader(rec.Body).ReadAll()
		assert.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, "Code station", records[0][0])
		assert.Equal(t, "V1234567", records[1][0])
		assert.Equal(t, "L'Albarine à Ambérieu", records[1][1])
	})

	t.Run("filter is honored", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/export/stations.csv?search=vilaine", nil)

		err := ExportStationsCSVHandler(c)
		assert.NoError(t, err)

		records, err := csv.NewReader(rec.Body).ReadAll()
		assert.NoError(t, err)
		// Header only, no match
		assert.Len(t, records, 1)
	})
}

func TestExportStationsXLSXHandler(t *testing.T) {
	testDB := setupTestDB(t)
	seedDrillDown(t, testDB)

	_, c, rec := setupEcho(http.MethodGet, "/export/stations.xlsx", nil)

	err := ExportStationsXLSXHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	file, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	assert.NoError(t, err)
	defer file.Close()

	value, err := file.GetCellValue("Stations", "A2")
	assert.NoError(t, err)
	assert.Equal(t, "V1234567", value)
}
