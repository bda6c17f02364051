package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CoursEau represents a watercourse monitored by one or more stations
type CoursEau struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Code string `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:200;not null" json:"name"`
	URI  string `gorm:"size:255" json:"uri"` // Sandre reference URI

	// Relationships
	Stations []Station `gorm:"foreignKey:CoursEauID" json:"stations,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *CoursEau) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (CoursEau) TableName() string {
	return "cours_eau"
}
