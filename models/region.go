package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Region represents a top-level administrative region
type Region struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Code string `gorm:"size:3;uniqueIndex;not null" json:"code"` // INSEE region code (e.g. "84")
	Name string `gorm:"size:100;not null" json:"name"`

	// Relationships
	Departements []Departement `gorm:"foreignKey:RegionID" json:"departements,omitempty"`
}

// BeforeCreate hook to generate UUID
func (r *Region) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Region) TableName() string {
	return "regions"
}
