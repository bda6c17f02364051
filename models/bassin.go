package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bassin represents a hydrographic basin
type Bassin struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Code string `gorm:"size:10;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:150;not null" json:"name"`

	// Relationships
	Stations []Station `gorm:"foreignKey:BassinID" json:"stations,omitempty"`
}

// BeforeCreate hook to generate UUID
func (b *Bassin) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Bassin) TableName() string {
	return "bassins"
}
