package jobs

import (
	"fmt"
	"log"
	"time"

	"ecoulement_app_go/config"
	"ecoulement_app_go/models"
	"ecoulement_app_go/services"
	"ecoulement_app_go/services/hubeau"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartScheduler starts the background job that refreshes the observation
// cache. The schedule comes from config (daily at 06:00 by default).
func StartScheduler(database *gorm.DB, client *hubeau.Client, cfg *config.Config) *cron.Cron {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		log.Printf("[CRON] Failed to load Europe/Paris timezone, falling back to local time: %v", err)
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.RefreshSpec, func() {
		log.Println("[CRON] Running observation cache refresh...")
		if err := RefreshObservationCache(database, client, cfg); err != nil {
			log.Printf("[CRON] Observation refresh failed: %v", err)
			notifyRefreshFailure(cfg, err)
		}
	})
	if err != nil {
		log.Fatalf("[CRON] Failed to schedule observation refresh: %v", err)
	}

	c.Start()
	log.Println("[CRON] Scheduler started")

	if cfg.RefreshOnStart {
		go func() {
			if err := RefreshObservationCache(database, client, cfg); err != nil {
				log.Printf("[JOB] Startup observation refresh failed: %v", err)
				notifyRefreshFailure(cfg, err)
			}
		}()
	}

	return c
}

// campagnePageSize bounds the campaign fetch per station, matching the
// live-fallback path on the station detail page
const campagnePageSize = 50

// RefreshObservationCache pulls the last ObservationWindow days of
// observations and the recent campaigns into the local cache, then prunes
// entries that fell out of the window
func RefreshObservationCache(database *gorm.DB, client *hubeau.Client, cfg *config.Config) error {
	end := time.Now()
	start := end.AddDate(0, 0, -cfg.ObservationWindow)

	// Station codes are resolved once; observations arrive station-tagged
	stationIDs, err := stationIDsByCode(database)
	if err != nil {
		return err
	}
	if len(stationIDs) == 0 {
		log.Println("[JOB] No stations in database, skipping observation refresh")
		return nil
	}

	totalCreated := 0
	touched := make(map[string]string) // station ID -> code
	page := 1
	for {
		records, hasMore, err := client.FetchObservationsByDateRange(start, end, cfg.ObservationPageSize, page)
		if err != nil {
			return fmt.Errorf("observation refresh aborted on page %d: %w", page, err)
		}

		created, err := storePage(database, stationIDs, records, touched)
		if err != nil {
			return err
		}
		totalCreated += created

		if !hasMore {
			break
		}
		page++

		time.Sleep(1 * time.Second) // Be polite
	}

	campagnesCreated, err := refreshCampagnes(database, client, touched)
	if err != nil {
		return err
	}

	if _, err := services.PruneObservations(database, time.Duration(cfg.ObservationWindow)*24*time.Hour); err != nil {
		log.Printf("[WARNING] Failed to prune observation cache: %v", err)
	}

	log.Printf("[JOB] Observation refresh completed: %d new observations, %d new campagnes cached",
		totalCreated, campagnesCreated)
	return nil
}

func storePage(database *gorm.DB, stationIDs map[string]string, records []hubeau.Observation, touched map[string]string) (int, error) {
	created := 0
	// Group by station so StoreObservations keeps its per-station contract
	byStation := make(map[string][]hubeau.Observation)
	for _, rec := range records {
		code := models.CleanStationCode(rec.CodeStation)
		id, ok := stationIDs[code]
		if !ok {
			continue // observation for a station we don't carry
		}
		byStation[id] = append(byStation[id], rec)
		touched[id] = code
	}

	for stationID, obs := range byStation {
		n, err := services.StoreObservations(database, stationID, obs)
		if err != nil {
			return created, err
		}
		created += n
	}
	return created, nil
}

// refreshCampagnes pulls the recent campaigns for every station that had
// observations in this run. The campaigns endpoint is per-station, so a
// failed station is logged and skipped rather than aborting the run.
func refreshCampagnes(database *gorm.DB, client *hubeau.Client, touched map[string]string) (int, error) {
	created := 0
	first := true
	for stationID, code := range touched {
		if !first {
			time.Sleep(1 * time.Second) // Be polite
		}
		first = false

		records, err := client.FetchCampagnesByStation(code, campagnePageSize)
		if err != nil {
			log.Printf("[WARNING] Failed to fetch campagnes for station %s: %v", code, err)
			continue
		}
		n, err := services.StoreCampagnes(database, stationID, records)
		if err != nil {
			return created, err
		}
		created += n
	}
	return created, nil
}

func stationIDsByCode(database *gorm.DB) (map[string]string, error) {
	var stations []models.Station
	if err := database.Select("id", "code").Find(&stations).Error; err != nil {
		return nil, fmt.Errorf("failed to load station codes: %w", err)
	}

	ids := make(map[string]string, len(stations))
	for _, s := range stations {
		ids[s.Code] = s.ID
	}
	return ids, nil
}

func notifyRefreshFailure(cfg *config.Config, jobErr error) {
	if cfg.EmailOpsTo == "" {
		return
	}
	email := services.BuildRefreshAlertEmail(cfg.EmailOpsTo, jobErr)
	services.SendEmailAsync(cfg, email)
}
