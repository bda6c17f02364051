package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Campagne is a locally cached observation campaign for a station
type Campagne struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StationID string  `gorm:"type:uuid;not null;index;uniqueIndex:idx_camp_station_code" json:"station_id"`
	Station   Station `gorm:"foreignKey:StationID" json:"station,omitempty"`

	Code string    `gorm:"size:20;not null;uniqueIndex:idx_camp_station_code" json:"code"` // code_campagne
	Date time.Time `gorm:"index" json:"date"`
	Type string    `gorm:"size:50" json:"type"` // libelle_type_campagne ("Usuelle", "Complémentaire")
}

// BeforeCreate hook to generate UUID
func (c *Campagne) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Campagne) TableName() string {
	return "campagnes"
}
