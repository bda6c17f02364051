package handlers

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"ecoulement_app_go/config"
	"ecoulement_app_go/db"
	"ecoulement_app_go/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
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

	// Set global DB
	db.DB = testDB

	return testDB
}

// stubRenderer records which template a handler asked for instead of
// executing real page templates
type stubRenderer struct{}

func (stubRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	_, err := fmt.Fprintf(w, "rendered:%s", name)
	return err
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Renderer = stubRenderer{}
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment: "test",
		AppURL:      "http://localhost:5000",
	})

	return e, c, rec
}

// seedDrillDown creates one region/departement/commune/station chain used by
// most handler tests
func seedDrillDown(t *testing.T, testDB *gorm.DB) *models.Station {
	region := models.Region{Code: "84", Name: "Auvergne-Rhône-Alpes"}
	assert.NoError(t, testDB.Create(&region).Error)

	departement := models.Departement{Code: "01", Name: "Ain", RegionID: region.ID}
	assert.NoError(t, testDB.Create(&departement).Error)

	commune := models.Commune{Code: "01004", Name: "Ambérieu-en-Bugey", DepartementID: departement.ID}
	assert.NoError(t, testDB.Create(&commune).Error)

	bassin := models.Bassin{Code: "06", Name: "Rhône-Méditerranée"}
	assert.NoError(t, testDB.Create(&bassin).Error)

	coursEau := models.CoursEau{Code: "V12-0400", Name: "L'Albarine"}
	assert.NoError(t, testDB.Create(&coursEau).Error)

	station := models.Station{
		CommuneID:  commune.ID,
		BassinID:   bassin.ID,
		CoursEauID: coursEau.ID,
		Code:       "V1234567",
		Name:       "L'Albarine à Ambérieu",
		State:      "Active",
	}
	assert.NoError(t, testDB.Create(&station).Error)

	return &station
}
