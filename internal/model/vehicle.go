package model

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle belongs to exactly one Customer and is deleted with it.
// Plate is stored normalized: uppercase, no spaces (ej: ABC123, AB123CD).
type Vehicle struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Plate      string    `gorm:"uniqueIndex;not null"`
	Brand      string    `gorm:"not null"`
	Model      string    `gorm:"not null"`
	Year       *int
	Color      *string
	EngineType *string `gorm:"type:varchar(50)"` // ej: "1.6 Nafta", "2.0 Diesel"
	VIN        *string `gorm:"type:varchar(17);column:vin;uniqueIndex"`
	// CurrentMileage is monotonic by convention; only the dedicated
	// update-mileage operation rejects decreases.
	CurrentMileage int       `gorm:"not null;default:0"`
	CustomerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Notes          *string   `gorm:"type:text"`
	IsActive       bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID"`
}
