package services

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"ecoulement_app_go/models"
	"ecoulement_app_go/services/hubeau"

	"github.com/stretchr/testify/assert"
)

// sequenceRoundTripper returns canned responses in order, one per request
type sequenceRoundTripper struct {
	bodies []string
	calls  int
}

func (s *sequenceRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	body := s.bodies[len(s.bodies)-1]
	if s.calls < len(s.bodies) {
		body = s.bodies[s.calls]
	}
	s.calls++
	return &http.Response{
		StatusCode: http.StatusPartialContent,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
		Request:    &http.Request{},
	}, nil
}

func newImportClient(bodies ...string) *hubeau.Client {
	client := hubeau.NewClient("")
	client.SetTransport(&sequenceRoundTripper{bodies: bodies})
	return client
}

const stationRecord = `{
	"code_region": "84", "libelle_region": "Auvergne-Rhône-Alpes",
	"code_departement": "01", "libelle_departement": "Ain",
	"code_commune": "01004", "libelle_commune": "Ambérieu-en-Bugey",
	"code_bassin": "06", "libelle_bassin": "Rhône-Méditerranée",
	"code_cours_eau": "V12-0400", "libelle_cours_eau": "L'Albarine",
	"code_station": "V123 4567", "libelle_station": "L'Albarine à Ambérieu",
	"etat_station": "Active", "date_maj_station": "2023-06-15"
}`

func TestStationImporterRun(t *testing.T) {
	t.Run("creates the full hierarchy from one record", func(t *testing.T) {
		db := setupServiceTestDB(t)
		client := newImportClient(`{"count": 1, "next": null, "data": [` + stationRecord + `]}`)

		result, err := NewStationImporter(db, client).Run()
		assert.NoError(t, err)
		assert.Equal(t, 1, result.PagesFetched)
		assert.Equal(t, 1, result.Regions)
		assert.Equal(t, 1, result.Departements)
		assert.Equal(t, 1, result.Communes)
		assert.Equal(t, 1, result.Bassins)
		assert.Equal(t, 1, result.CoursEau)
		assert.Equal(t, 1, result.Stations)
		assert.Equal(t, 0, result.Skipped)
		assert.Empty(t, result.Errors)

		// The station code is stored without spaces
		var station models.Station
		assert.NoError(t, db.Where("code = ?", "V1234567").First(&station).Error)
		assert.Equal(t, "L'Albarine à Ambérieu", station.Name)
		assert.NotNil(t, station.SourceUpdatedAt)

		var commune models.Commune
		assert.NoError(t, db.Where("code = ?", "01004").First(&commune).Error)
		assert.Equal(t, commune.ID, station.CommuneID)
	})

	t.Run("re-running leaves existing rows untouched", func(t *testing.T) {
		db := setupServiceTestDB(t)
		page := `{"count": 1, "next": null, "data": [` + stationRecord + `]}`

		_, err := NewStationImporter(db, newImportClient(page)).Run()
		assert.NoError(t, err)

		result, err := NewStationImporter(db, newImportClient(page)).Run()
		assert.NoError(t, err)
		assert.Equal(t, 0, result.Regions)
		assert.Equal(t, 0, result.Stations)

		var count int64
		db.Model(&models.Station{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("skips records missing a parent code", func(t *testing.T) {
		db := setupServiceTestDB(t)
		incomplete := `{
			"code_region": "84", "libelle_region": "Auvergne-Rhône-Alpes",
			"code_station": "V9999999", "libelle_station": "Station orpheline"
		}`
		client := newImportClient(`{"count": 1, "next": null, "data": [` + incomplete + `]}`)

		result, err := NewStationImporter(db, client).Run()
		assert.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 0, result.Stations)
		assert.Empty(t, result.Errors)
	})

	t.Run("shared hierarchy rows are created once", func(t *testing.T) {
		db := setupServiceTestDB(t)
		second := `{
			"code_region": "84", "libelle_region": "Auvergne-Rhône-Alpes",
			"code_departement": "01", "libelle_departement": "Ain",
			"code_commune": "01004", "libelle_commune": "Ambérieu-en-Bugey",
			"code_bassin": "06", "libelle_bassin": "Rhône-Méditerranée",
			"code_cours_eau": "V12-0400", "libelle_cours_eau": "L'Albarine",
			"code_station": "V7654321", "libelle_station": "L'Albarine amont"
		}`
		client := newImportClient(`{"count": 2, "next": null, "data": [` + stationRecord + `,` + second + `]}`)

		result, err := NewStationImporter(db, client).Run()
		assert.NoError(t, err)
		assert.Equal(t, 1, result.Regions)
		assert.Equal(t, 1, result.Communes)
		assert.Equal(t, 2, result.Stations)

		var count int64
		db.Model(&models.Region{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("aborts when a page cannot be fetched", func(t *testing.T) {
		db := setupServiceTestDB(t)
		client := hubeau.NewClient("")
		client.SetTransport(&sequenceRoundTripper{bodies: []string{`not json`}})

		_, err := NewStationImporter(db, client).Run()
		assert.Error(t, err)
	})
}

func TestImportResultSummary(t *testing.T) {
	result := &ImportResult{PagesFetched: 2, Regions: 1, Stations: 10, Skipped: 3}
	summary := result.Summary()
	assert.Contains(t, summary, "pages: 2")
	assert.Contains(t, summary, "stations: 10")
	assert.Contains(t, summary, "skipped: 3")
}
