package services

import (
	"errors"
	"fmt"
	"log"

	"ecoulement_app_go/models"
	"ecoulement_app_go/services/hubeau"

	"gorm.io/gorm"
)

// ImportResult contains the summary of a dataset import run
type ImportResult struct {
	PagesFetched int
	Regions      int
	Departements int
	Communes     int
	Bassins      int
	CoursEau     int
	Stations     int
	Skipped      int // records missing a required parent code
	Errors       []string
}

// StationImporter fills the local database from the Hub'eau stations API
type StationImporter struct {
	db     *gorm.DB
	client *hubeau.Client

	// caches of code -> row ID, populated lazily during a run
	regionIDs      map[string]string
	departementIDs map[string]string
	communeIDs     map[string]string
	bassinIDs      map[string]string
	coursEauIDs    map[string]string
}

// NewStationImporter creates an importer bound to a database and API client
func NewStationImporter(db *gorm.DB, client *hubeau.Client) *StationImporter {
	return &StationImporter{
		db:             db,
		client:         client,
		regionIDs:      make(map[string]string),
		departementIDs: make(map[string]string),
		communeIDs:     make(map[string]string),
		bassinIDs:      make(map[string]string),
		coursEauIDs:    make(map[string]string),
	}
}

// Run pages through the stations API and upserts the geographic hierarchy.
// Re-running is safe: existing codes are left untouched.
func (si *StationImporter) Run() (*ImportResult, error) {
	result := &ImportResult{}
	log.Println("Importing station dataset from Hub'eau...")

	page := 1
	for {
		records, hasMore, err := si.client.FetchStationPage(page)
		if err != nil {
			return result, fmt.Errorf("import aborted on page %d: %w", page, err)
		}
		result.PagesFetched++

		for _, rec := range records {
			if err := si.importRecord(rec, result); err != nil {
				result.Errors = append(result.Errors, err.Error())
				log.Printf("[WARNING] Failed to import station %s: %v", rec.CodeStation, err)
			}
		}

		if !hasMore {
			break
		}
		page++
	}

	log.Printf("Import completed: %d stations, %d communes, %d departements, %d regions (%d skipped)",
		result.Stations, result.Communes, result.Departements, result.Regions, result.Skipped)
	return result, nil
}

func (si *StationImporter) importRecord(rec hubeau.Station, result *ImportResult) error {
	code := models.CleanStationCode(rec.CodeStation)
	if code == "" || rec.CodeCommune == "" || rec.CodeRegion == "" ||
		rec.CodeDepartement == "" || rec.CodeBassin == "" || rec.CodeCoursEau == "" {
		result.Skipped++
		return nil
	}

	regionID, created, err := si.ensureRegion(rec.CodeRegion, rec.LibelleRegion)
	if err != nil {
		return err
	}
	if created {
		result.Regions++
	}

	departementID, created, err := si.ensureDepartement(rec.CodeDepartement, rec.LibelleDepartement, regionID)
	if err != nil {
		return err
	}
	if created {
		result.Departements++
	}

	communeID, created, err := si.ensureCommune(rec.CodeCommune, rec.LibelleCommune, departementID)
	if err != nil {
		return err
	}
	if created {
		result.Communes++
	}

	bassinID, created, err := si.ensureBassin(rec.CodeBassin, rec.LibelleBassin)
	if err != nil {
		return err
	}
	if created {
		result.Bassins++
	}

	coursEauID, created, err := si.ensureCoursEau(rec.CodeCoursEau, rec.LibelleCoursEau, rec.URICoursEau)
	if err != nil {
		return err
	}
	if created {
		result.CoursEau++
	}

	// Station itself: insert-if-missing keyed on the cleaned code
	var existing models.Station
	err = si.db.Where("code = ?", code).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check station %s: %w", code, err)
	}

	station := models.Station{
		CommuneID:  communeID,
		BassinID:   bassinID,
		CoursEauID: coursEauID,
		Code:       code,
		Name:       rec.LibelleStation,
		URI:        rec.URIStation,
		State:      rec.EtatStation,
		Latitude:   rec.Latitude,
		Longitude:  rec.Longitude,
		CoordX:     rec.CoordonneeX,
		CoordY:     rec.CoordonneeY,
	}
	if rec.DateMajStation != nil && !rec.DateMajStation.IsZero() {
		t := rec.DateMajStation.Time
		station.SourceUpdatedAt = &t
	}
	if err := si.db.Create(&station).Error; err != nil {
		return fmt.Errorf("failed to create station %s: %w", code, err)
	}
	result.Stations++
	return nil
}

func (si *StationImporter) ensureRegion(code, name string) (string, bool, error) {
	if id, ok := si.regionIDs[code]; ok {
		return id, false, nil
	}
	var region models.Region
	err := si.db.Where("code = ?", code).First(&region).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		region = models.Region{Code: code, Name: name}
		if err := si.db.Create(&region).Error; err != nil {
			return "", false, fmt.Errorf("failed to create region %s: %w", code, err)
		}
		si.regionIDs[code] = region.ID
		return region.ID, true, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to check region %s: %w", code, err)
	}
	si.regionIDs[code] = region.ID
	return region.ID, false, nil
}

func (si *StationImporter) ensureDepartement(code, name, regionID string) (string, bool, error) {
	if id, ok := si.departementIDs[code]; ok {
		return id, false, nil
	}
	var departement models.Departement
	err := si.db.Where("code = ?", code).First(&departement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		departement = models.Departement{Code: code, Name: name, RegionID: regionID}
		if err := si.db.Create(&departement).Error; err != nil {
			return "", false, fmt.Errorf("failed to create departement %s: %w", code, err)
		}
		si.departementIDs[code] = departement.ID
		return departement.ID, true, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to check departement %s: %w", code, err)
	}
	si.departementIDs[code] = departement.ID
	return departement.ID, false, nil
}

func (si *StationImporter) ensureCommune(code, name, departementID string) (string, bool, error) {
	if id, ok := si.communeIDs[code]; ok {
		return id, false, nil
	}
	var commune models.Commune
	err := si.db.Where("code = ?", code).First(&commune).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		commune = models.Commune{Code: code, Name: name, DepartementID: departementID}
		if err := si.db.Create(&commune).Error; err != nil {
			return "", false, fmt.Errorf("failed to create commune %s: %w", code, err)
		}
		si.communeIDs[code] = commune.ID
		return commune.ID, true, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to check commune %s: %w", code, err)
	}
	si.communeIDs[code] = commune.ID
	return commune.ID, false, nil
}

func (si *StationImporter) ensureBassin(code, name string) (string, bool, error) {
	if id, ok := si.bassinIDs[code]; ok {
		return id, false, nil
	}
	var bassin models.Bassin
	err := si.db.Where("code = ?", code).First(&bassin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		bassin = models.Bassin{Code: code, Name: name}
		if err := si.db.Create(&bassin).Error; err != nil {
			return "", false, fmt.Errorf("failed to create bassin %s: %w", code, err)
		}
		si.bassinIDs[code] = bassin.ID
		return bassin.ID, true, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to check bassin %s: %w", code, err)
	}
	si.bassinIDs[code] = bassin.ID
	return bassin.ID, false, nil
}

func (si *StationImporter) ensureCoursEau(code, name, uri string) (string, bool, error) {
	if id, ok := si.coursEauIDs[code]; ok {
		return id, false, nil
	}
	var coursEau models.CoursEau
	err := si.db.Where("code = ?", code).First(&coursEau).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		coursEau = models.CoursEau{Code: code, Name: name, URI: uri}
		if err := si.db.Create(&coursEau).Error; err != nil {
			return "", false, fmt.Errorf("failed to create cours d'eau %s: %w", code, err)
		}
		si.coursEauIDs[code] = coursEau.ID
		return coursEau.ID, true, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to check cours d'eau %s: %w", code, err)
	}
	si.coursEauIDs[code] = coursEau.ID
	return coursEau.ID, false, nil
}

// Summary renders a short human-readable report for logs and emails
func (r *ImportResult) Summary() string {
	return fmt.Sprintf(
		"pages: %d, regions: %d, departements: %d, communes: %d, bassins: %d, cours d'eau: %d, stations: %d, skipped: %d, errors: %d",
		r.PagesFetched, r.Regions, r.Departements, r.Communes, r.Bassins, r.CoursEau, r.Stations, r.Skipped, len(r.Errors))
}
