package models

import (
	"time"

	"gorm.io/gorm"
)

// Pricing units for catalog services
const (
	UnitKilogram = "kg"
	UnitPiece    = "piece"
)

// LaundryService is an entry of the shop's service catalog (wash & fold, dry clean, ...)
type LaundryService struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`
	Unit      string         `gorm:"not null" json:"unit"` // "kg" or "piece"
	UnitPrice float64        `gorm:"not null" json:"unit_price"`
	Active    bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the LaundryService model
func (LaundryService) TableName() string {
	return "services"
}

// BeforeCreate assigns an id when none is set
func (s *LaundryService) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = newID()
	}
	return nil
}

// PricedByWeight reports whether line items are charged per kilogram
func (s *LaundryService) PricedByWeight() bool {
	return s.Unit == UnitKilogram
}
