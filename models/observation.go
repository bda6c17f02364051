package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Observation is a locally cached visual flow observation for a station.
// Rows are written by the refresh job and by the live-fallback path on the
// station detail page; one row per (station, date, campaign).
type Observation struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StationID string  `gorm:"type:uuid;not null;index;uniqueIndex:idx_obs_station_date_camp" json:"station_id"`
	Station   Station `gorm:"foreignKey:StationID" json:"station,omitempty"`

	ObservedAt   time.Time `gorm:"not null;index;uniqueIndex:idx_obs_station_date_camp" json:"observed_at"`
	CampagneCode string    `gorm:"size:20;uniqueIndex:idx_obs_station_date_camp" json:"campagne_code"`

	FlowCode  string `gorm:"size:10" json:"flow_code"`         // code_ecoulement ("1", "1a", ...)
	FlowLabel string `gorm:"size:100;index" json:"flow_label"` // libelle_ecoulement ("Ecoulement visible", ...)
}

// BeforeCreate hook to generate UUID
func (o *Observation) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Observation) TableName() string {
	return "observations"
}
