package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Station represents a stream-flow observation station.
// Codes are stored normalized: the upstream data contains grouped-digit
// codes such as "D01 3400 01", all spaces are stripped before storage.
type Station struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CommuneID  string   `gorm:"type:uuid;not null;index" json:"commune_id"`
	Commune    Commune  `gorm:"foreignKey:CommuneID" json:"commune,omitempty"`
	BassinID   string   `gorm:"type:uuid;not null;index" json:"bassin_id"`
	Bassin     Bassin   `gorm:"foreignKey:BassinID" json:"bassin,omitempty"`
	CoursEauID string   `gorm:"type:uuid;not null;index" json:"cours_eau_id"`
	CoursEau   CoursEau `gorm:"foreignKey:CoursEauID" json:"cours_eau,omitempty"`

	Code  string `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name  string `gorm:"size:200;not null" json:"name"`
	URI   string `gorm:"size:255" json:"uri"`
	State string `gorm:"size:50" json:"state"` // etat_station ("Active", "Gelée", ...)

	SourceUpdatedAt *time.Time `json:"source_updated_at"` // date_maj_station upstream

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// Lambert 93 projected coordinates as published upstream
	CoordX float64 `json:"coord_x"`
	CoordY float64 `json:"coord_y"`

	// Relationships
	Observations []Observation `gorm:"foreignKey:StationID" json:"observations,omitempty"`
	Campagnes    []Campagne    `gorm:"foreignKey:StationID" json:"campagnes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (s *Station) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Station) TableName() string {
	return "stations"
}

// CleanStationCode normalizes a station code for storage and lookup
func CleanStationCode(code string) string {
	return strings.ReplaceAll(strings.TrimSpace(code), " ", "")
}
