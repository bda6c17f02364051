package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"ecoulement_app_go/services"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	t.Run("healthy database is a 200", func(t *testing.T) {
		testDB := setupTestDB(t)
		seedDrillDown(t, testDB)

		_, c, rec := setupEcho(http.MethodGet, "/api/health", nil)

		err := HealthHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var report services.IntegrityReport
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.True(t, report.IntegrityOK)
		assert.Equal(t, int64(1), report.RowCounts["stations"])
	})

	t.Run("empty database is a 503", func(t *testing.T) {
		setupTestDB(t)

		_, c, rec := setupEcho(http.MethodGet, "/api/health", nil)

		err := HealthHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var report services.IntegrityReport
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Contains(t, report.EmptyTables, "stations")
	})
}
