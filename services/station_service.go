package services

import (
	"errors"
	"fmt"
	"strings"

	"ecoulement_app_go/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a code does not match any row
var ErrNotFound = errors.New("not found")

// DefaultListLimit bounds commune and station listings on drill-down pages
const DefaultListLimit = 20

// GetRegions returns all regions ordered by name
func GetRegions(db *gorm.DB) ([]models.Region, error) {
	var regions []models.Region
	if err := db.Order("name").Find(&regions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch regions: %w", err)
	}
	return regions, nil
}

// GetRegionByCode returns one region or ErrNotFound
func GetRegionByCode(db *gorm.DB, code string) (*models.Region, error) {
	var region models.Region
	err := db.Where("code = ?", code).First(&region).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch region %s: %w", code, err)
	}
	return &region, nil
}

// GetDepartementsByRegionCode returns the départements of a region ordered by
// name. ErrNotFound distinguishes an unknown region from one with no data.
func GetDepartementsByRegionCode(db *gorm.DB, regionCode string) ([]models.Departement, error) {
	region, err := GetRegionByCode(db, regionCode)
	if err != nil {
		return nil, err
	}

	var departements []models.Departement
	if err := db.Where("region_id = ?", region.ID).Order("name").Find(&departements).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch departements for region %s: %w", regionCode, err)
	}
	return departements, nil
}

// GetDepartementByCode returns one département or ErrNotFound
func GetDepartementByCode(db *gorm.DB, code string) (*models.Departement, error) {
	var departement models.Departement
	err := db.Preload("Region").Where("code = ?", code).First(&departement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch departement %s: %w", code, err)
	}
	return &departement, nil
}

// GetCommunesByDepartementCode returns the communes of a département ordered
// by name, capped at limit (DefaultListLimit when limit <= 0)
func GetCommunesByDepartementCode(db *gorm.DB, departementCode string, limit int) ([]models.Commune, error) {
	departement, err := GetDepartementByCode(db, departementCode)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}

	var communes []models.Commune
	if err := db.Where("departement_id = ?", departement.ID).Order("name").Limit(limit).Find(&communes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch communes for departement %s: %w", departementCode, err)
	}
	return communes, nil
}

// GetCommuneByCode returns one commune or ErrNotFound
func GetCommuneByCode(db *gorm.DB, code string) (*models.Commune, error) {
	var commune models.Commune
	err := db.Preload("Departement.Region").Where("code = ?", code).First(&commune).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commune %s: %w", code, err)
	}
	return &commune, nil
}

// GetStationsByCommuneCode returns the stations of a commune ordered by name,
// capped at limit (DefaultListLimit when limit <= 0)
func GetStationsByCommuneCode(db *gorm.DB, communeCode string, limit int) ([]models.Station, error) {
	commune, err := GetCommuneByCode(db, communeCode)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}

	var stations []models.Station
	if err := db.Where("commune_id = ?", commune.ID).Order("name").Limit(limit).Find(&stations).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch stations for commune %s: %w", communeCode, err)
	}
	return stations, nil
}

// GetStationByCode returns one station with its commune, département, region,
// bassin and cours d'eau preloaded. The code is normalized before lookup.
func GetStationByCode(db *gorm.DB, code string) (*models.Station, error) {
	cleaned := models.CleanStationCode(code)

	var station models.Station
	err := db.Preload("Commune.Departement.Region").
		Preload("Bassin").
		Preload("CoursEau").
		Where("code = ?", cleaned).
		First(&station).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch station %s: %w", cleaned, err)
	}
	return &station, nil
}

// StationFilter narrows the explorer listing
type StationFilter struct {
	RegionName      string
	DepartementName string
	Search          string // matched against station label and code
}

// StationRow is a flattened station listing row for the explorer page
type StationRow struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	State           string `json:"state"`
	CommuneName     string `json:"commune_name"`
	DepartementName string `json:"departement_name"`
	RegionName      string `json:"region_name"`
	CoursEauName    string `json:"cours_eau_name"`
}

// ListStations returns explorer rows joined across the whole hierarchy,
// filtered per f
func ListStations(db *gorm.DB, f StationFilter) ([]StationRow, error) {
	query := db.Table("stations s").
		Select(`s.code, s.name, s.state,
			c.name AS commune_name,
			d.name AS departement_name,
			r.name AS region_name,
			ce.name AS cours_eau_name`).
		Joins("JOIN communes c ON s.commune_id = c.id").
		Joins("JOIN departements d ON c.departement_id = d.id").
		Joins("JOIN regions r ON d.region_id = r.id").
		Joins("JOIN cours_eau ce ON s.cours_eau_id = ce.id").
		Order("s.name")

	if f.RegionName != "" {
		query = query.Where("r.name = ?", f.RegionName)
	}
	if f.DepartementName != "" {
		query = query.Where("d.name = ?", f.DepartementName)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(s.name) LIKE ? OR LOWER(s.code) LIKE ?", like, like)
	}

	var rows []StationRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}
	return rows, nil
}

// StationFilterOptions holds the distinct values shown in the explorer form
type StationFilterOptions struct {
	Regions      []string
	Departements []string
}

// GetStationFilterOptions returns the distinct region and département names
// that actually have stations, sorted
func GetStationFilterOptions(db *gorm.DB) (*StationFilterOptions, error) {
	opts := &StationFilterOptions{}

	err := db.Table("stations s").
		Distinct("r.name").
		Joins("JOIN communes c ON s.commune_id = c.id").
		Joins("JOIN departements d ON c.departement_id = d.id").
		Joins("JOIN regions r ON d.region_id = r.id").
		Order("r.name").
		Pluck("r.name", &opts.Regions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch region options: %w", err)
	}

	err = db.Table("stations s").
		Distinct("d.name").
		Joins("JOIN communes c ON s.commune_id = c.id").
		Joins("JOIN departements d ON c.departement_id = d.id").
		Order("d.name").
		Pluck("d.name", &opts.Departements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch departement options: %w", err)
	}

	return opts, nil
}
