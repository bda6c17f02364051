package jobs

import (
	"bytes"
	"io"
	"net/http"
	"path"
	"testing"
	"time"

	"ecoulement_app_go/config"
	"ecoulement_app_go/models"
	"ecoulement_app_go/services/hubeau"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubTransport struct {
	body   string
	status int
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(s.body))),
		Header:     make(http.Header),
		Request:    &http.Request{},
	}, nil
}

// routeTransport answers each request with the body registered for the
// last segment of its path (observations, campagnes, ...)
type routeTransport struct {
	bodies map[string]string
}

func (r *routeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	body := r.bodies[path.Base(req.URL.Path)]
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
		Request:    &http.Request{},
	}, nil
}

func setupJobTestDB(t *testing.T) *gorm.DB {
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.Region{},
		&models.Departement{},
		&models.Commune{},
		&models.Bassin{},
		&models.CoursEau{},
		&models.Station{},
		&models.Observation{},
		&models.Campagne{},
	)
	assert.NoError(t, err)
	return testDB
}

func seedJobStation(t *testing.T, db *gorm.DB, code string) *models.Station {
	region := models.Region{Code: "84", Name: "Auvergne-Rhône-Alpes"}
	assert.NoError(t, db.Create(&region).Error)
	departement := models.Departement{Code: "01", Name: "Ain", RegionID: region.ID}
	assert.NoError(t, db.Create(&departement).Error)
	commune := models.Commune{Code: "01004", Name: "Ambérieu-en-Bugey", DepartementID: departement.ID}
	assert.NoError(t, db.Create(&commune).Error)
	bassin := models.Bassin{Code: "06", Name: "Rhône-Méditerranée"}
	assert.NoError(t, db.Create(&bassin).Error)
	coursEau := models.CoursEau{Code: "V12-0400", Name: "L'Albarine"}
	assert.NoError(t, db.Create(&coursEau).Error)

	station := models.Station{
		CommuneID: commune.ID, BassinID: bassin.ID, CoursEauID: coursEau.ID,
		Code: code, Name: "L'Albarine à Ambérieu", State: "Active",
	}
	assert.NoError(t, db.Create(&station).Error)
	return &station
}

func jobConfig() *config.Config {
	return &config.Config{
		ObservationWindow:   90,
		ObservationPageSize: 200,
		EmailTestMode:       true,
	}
}

func newJobClient(body string, status int) *hubeau.Client {
	client := hubeau.NewClient("")
	client.SetTransport(&stubTransport{body: body, status: status})
	return client
}

func TestRefreshObservationCache(t *testing.T) {
	t.Run("caches observations for known stations", func(t *testing.T) {
		db := setupJobTestDB(t)
		station := seedJobStation(t, db, "V1234567")

		// One observation for our station, one for a station we don't
		// carry. Dated inside the window so the final prune keeps it.
		recent := time.Now().AddDate(0, 0, -5).Format("2006-01-02")
		body := `{"count": 2, "next": null, "data": [
			{
				"code_station": "V123 4567",
				"code_campagne": 512,
				"date_observation": "` + recent + `",
				"code_ecoulement": "1",
				"libelle_ecoulement": "Ecoulement visible"
			},
			{
				"code_station": "X9999999",
				"code_campagne": 512,
				"date_observation": "` + recent + `",
				"code_ecoulement": "3",
				"libelle_ecoulement": "Assec"
			}
		]}`
		client := newJobClient(body, http.StatusOK)

		err := RefreshObservationCache(db, client, jobConfig())
		assert.NoError(t, err)

		var observations []models.Observation
		assert.NoError(t, db.Find(&observations).Error)
		assert.Len(t, observations, 1)
		assert.Equal(t, station.ID, observations[0].StationID)
		assert.Equal(t, "Ecoulement visible", observations[0].FlowLabel)
	})

	t.Run("empty database skips the fetch", func(t *testing.T) {
		db := setupJobTestDB(t)
		// A failing transport proves no request is made
		client := newJobClient("", http.StatusInternalServerError)

		err := RefreshObservationCache(db, client, jobConfig())
		assert.NoError(t, err)
	})

	t.Run("API failure aborts with an error", func(t *testing.T) {
		db := setupJobTestDB(t)
		seedJobStation(t, db, "V1234567")
		client := newJobClient(`{}`, http.StatusServiceUnavailable)

		err := RefreshObservationCache(db, client, jobConfig())
		assert.Error(t, err)
	})

	t.Run("replay does not duplicate rows", func(t *testing.T) {
		db := setupJobTestDB(t)
		seedJobStation(t, db, "V1234567")
		recent := time.Now().AddDate(0, 0, -5).Format("2006-01-02")
		body := `{"count": 1, "next": null, "data": [{
			"code_station": "V1234567",
			"code_campagne": 512,
			"date_observation": "` + recent + `",
			"code_ecoulement": "1",
			"libelle_ecoulement": "Ecoulement visible"
		}]}`

		assert.NoError(t, RefreshObservationCache(db, newJobClient(body, http.StatusOK), jobConfig()))
		assert.NoError(t, RefreshObservationCache(db, newJobClient(body, http.StatusOK), jobConfig()))

		var count int64
		db.Model(&models.Observation{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("caches campagnes for stations with fresh observations", func(t *testing.T) {
		db := setupJobTestDB(t)
		station := seedJobStation(t, db, "V1234567")

		recent := time.Now().AddDate(0, 0, -5).Format("2006-01-02")
		observations := `{"count": 1, "next": null, "data": [{
			"code_station": "V1234567",
			"code_campagne": 512,
			"date_observation": "` + recent + `",
			"code_ecoulement": "1",
			"libelle_ecoulement": "Ecoulement visible"
		}]}`
		campagnes := `{"count": 1, "next": null, "data": [{
			"code_campagne": 512,
			"date_campagne": "` + recent + `",
			"code_type_campagne": "1",
			"libelle_type_campagne": "Usuelle",
			"code_station": "V1234567"
		}]}`

		client := hubeau.NewClient("")
		client.SetTransport(&routeTransport{bodies: map[string]string{
			"observations": observations,
			"campagnes":    campagnes,
		}})

		err := RefreshObservationCache(db, client, jobConfig())
		assert.NoError(t, err)

		var cached []models.Campagne
		assert.NoError(t, db.Find(&cached).Error)
		assert.Len(t, cached, 1)
		assert.Equal(t, station.ID, cached[0].StationID)
		assert.Equal(t, "512", cached[0].Code)
		assert.Equal(t, "Usuelle", cached[0].Type)
	})
}

func TestStartScheduler(t *testing.T) {
	db := setupJobTestDB(t)
	cfg := jobConfig()
	cfg.RefreshSpec = "0 6 * * *"
	cfg.RefreshOnStart = false

	scheduler := StartScheduler(db, newJobClient(`{}`, http.StatusOK), cfg)
	assert.NotNil(t, scheduler)
	assert.Len(t, scheduler.Entries(), 1)
	// Entry scheduling must not panic even when the timezone lookup
	// had to fall back
	assert.False(t, scheduler.Entries()[0].Next.IsZero())
	scheduler.Stop()
}

func TestStationIDsByCode(t *testing.T) {
	db := setupJobTestDB(t)
	station := seedJobStation(t, db, "V1234567")

	ids, err := stationIDsByCode(db)
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"V1234567": station.ID}, ids)
}
