package services

import (
	"bytes"
	"io"
	"log"
	"testing"
	"time"

	"ecoulement_app_go/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache
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

// seedHierarchy creates one full region/departement/commune/bassin/cours
// d'eau chain and returns the IDs keyed by table
func seedHierarchy(t *testing.T, db *gorm.DB) map[string]string {
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

	return map[string]string{
		"region":      region.ID,
		"departement": departement.ID,
		"commune":     commune.ID,
		"bassin":      bassin.ID,
		"cours_eau":   coursEau.ID,
	}
}

// seedStation creates a station attached to the seeded hierarchy
func seedStation(t *testing.T, db *gorm.DB, ids map[string]string, code, name string) *models.Station {
	station := models.Station{
		CommuneID:  ids["commune"],
		BassinID:   ids["bassin"],
		CoursEauID: ids["cours_eau"],
		Code:       code,
		Name:       name,
		State:      "Active",
	}
	assert.NoError(t, db.Create(&station).Error)
	return &station
}

// seedObservation inserts a cached observation n days in the past
func seedObservation(t *testing.T, db *gorm.DB, stationID, label string, daysAgo int) {
	obs := models.Observation{
		StationID:    stationID,
		ObservedAt:   time.Now().AddDate(0, 0, -daysAgo),
		CampagneCode: uuid.New().String()[:8],
		FlowCode:     "1",
		FlowLabel:    label,
	}
	assert.NoError(t, db.Create(&obs).Error)
}

// captureOutput captures log output during f
func captureOutput(f func()) string {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	f()
	log.SetOutput(io.Discard)
	return buf.String()
}
