package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Commune represents a commune within a département
type Commune struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DepartementID string      `gorm:"type:uuid;not null;index" json:"departement_id"`
	Departement   Departement `gorm:"foreignKey:DepartementID" json:"departement,omitempty"`

	Code string `gorm:"size:5;uniqueIndex;not null" json:"code"` // INSEE commune code (e.g. "01053")
	Name string `gorm:"size:150;not null" json:"name"`

	// Relationships
	Stations []Station `gorm:"foreignKey:CommuneID" json:"stations,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Commune) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Commune) TableName() string {
	return "communes"
}
