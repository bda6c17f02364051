package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Departement represents a département within a region
type Departement struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RegionID string `gorm:"type:uuid;not null;index" json:"region_id"`
	Region   Region `gorm:"foreignKey:RegionID" json:"region,omitempty"`

	Code string `gorm:"size:3;uniqueIndex;not null" json:"code"` // INSEE département code (e.g. "01", "2A")
	Name string `gorm:"size:100;not null" json:"name"`

	// Relationships
	Communes []Commune `gorm:"foreignKey:DepartementID" json:"communes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (d *Departement) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Departement) TableName() string {
	return "departements"
}
