package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a client of the shop. Phone is stored normalized (no spaces
// or dashes) and is required; it is not necessarily unique.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName string    `gorm:"not null"`
	LastName  string    `gorm:"index;not null"`
	Phone     string    `gorm:"index;not null"`
	Email     *string
	Address   *string
	City      *string
	Notes     *string    `gorm:"type:text"`
	IsActive  bool       `gorm:"not null;default:true"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"` // nulled when the user is deleted
	CreatedAt time.Time
	UpdatedAt time.Time

	// Vehicles are cascade-deleted with their owner.
	Vehicles []Vehicle `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// FullName returns "FirstName LastName".
func (c *Customer) FullName() string { return c.FirstName + " " + c.LastName }
