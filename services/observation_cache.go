package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"ecoulement_app_go/models"
	"ecoulement_app_go/services/hubeau"

	"gorm.io/gorm"
)

// StoreObservations inserts unseen observations for a station and returns
// the number of rows created. Rows already cached are left untouched.
func StoreObservations(db *gorm.DB, stationID string, records []hubeau.Observation) (int, error) {
	created := 0
	for _, rec := range records {
		if rec.DateObservation == nil || rec.DateObservation.IsZero() {
			continue
		}

		obs := models.Observation{
			StationID:    stationID,
			ObservedAt:   rec.DateObservation.Time,
			CampagneCode: rec.CodeCampagne.String(),
			FlowCode:     rec.CodeEcoulement,
			FlowLabel:    rec.LibelleEcoulement,
		}

		var existing models.Observation
		err := db.Where("station_id = ? AND observed_at = ? AND campagne_code = ?",
			obs.StationID, obs.ObservedAt, obs.CampagneCode).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("failed to check observation: %w", err)
		}

		if err := db.Create(&obs).Error; err != nil {
			return created, fmt.Errorf("failed to cache observation: %w", err)
		}
		created++
	}
	return created, nil
}

// StoreCampagnes inserts unseen campaigns for a station and returns the
// number of rows created
func StoreCampagnes(db *gorm.DB, stationID string, records []hubeau.Campagne) (int, error) {
	created := 0
	for _, rec := range records {
		code := rec.CodeCampagne.String()
		if code == "" {
			continue
		}

		var existing models.Campagne
		err := db.Where("station_id = ? AND code = ?", stationID, code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("failed to check campagne: %w", err)
		}

		campagne := models.Campagne{
			StationID: stationID,
			Code:      code,
			Type:      rec.LibelleTypeCampagne,
		}
		if rec.DateCampagne != nil {
			campagne.Date = rec.DateCampagne.Time
		}
		if err := db.Create(&campagne).Error; err != nil {
			return created, fmt.Errorf("failed to cache campagne: %w", err)
		}
		created++
	}
	return created, nil
}

// GetCachedObservations returns the cached observations of a station, most
// recent first, capped at limit
func GetCachedObservations(db *gorm.DB, stationID string, limit int) ([]models.Observation, error) {
	var observations []models.Observation
	if err := db.Where("station_id = ?", stationID).
		Order("observed_at DESC").Limit(limit).
		Find(&observations).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch cached observations: %w", err)
	}
	return observations, nil
}

// GetCachedCampagnes returns the cached campaigns of a station, most recent
// first, capped at limit
func GetCachedCampagnes(db *gorm.DB, stationID string, limit int) ([]models.Campagne, error) {
	var campagnes []models.Campagne
	if err := db.Where("station_id = ?", stationID).
		Order("date DESC").Limit(limit).
		Find(&campagnes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch cached campagnes: %w", err)
	}
	return campagnes, nil
}

// PruneObservations deletes cache entries older than the retention window
// and returns the number of rows removed
func PruneObservations(db *gorm.DB, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := db.Where("observed_at < ?", cutoff).Delete(&models.Observation{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune observations: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("Pruned %d cached observations older than %s", result.RowsAffected, cutoff.Format("2006-01-02"))
	}
	return result.RowsAffected, nil
}

// RefreshStationCache pulls recent observations and campaigns for one
// station from the API into the cache. Used as the live-fallback path on the
// station detail page when the cache is empty.
func RefreshStationCache(db *gorm.DB, client *hubeau.Client, station *models.Station, size int) error {
	observations, err := client.FetchObservationsByStation(station.Code, size)
	if err != nil {
		return fmt.Errorf("refresh observations for %s: %w", station.Code, err)
	}
	if _, err := StoreObservations(db, station.ID, observations); err != nil {
		return err
	}

	campagnes, err := client.FetchCampagnesByStation(station.Code, 50)
	if err != nil {
		return fmt.Errorf("refresh campagnes for %s: %w", station.Code, err)
	}
	if _, err := StoreCampagnes(db, station.ID, campagnes); err != nil {
		return err
	}
	return nil
}
