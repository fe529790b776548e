package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una orden de servicio. PENDING is initial; COMPLETED and
// CANCELLED are terminal.
const (
	OrderPending   = "PENDING"
	OrderCompleted = "COMPLETED"
	OrderCancelled = "CANCELLED"
)

// Tipos de item de una orden.
const (
	ItemProduct = "PRODUCT"
	ItemService = "SERVICE"
)

// ServiceOrder is a service engagement against one vehicle, composed of
// priced line items. OrderNumber (OS-00001, OS-00002, ...) is assigned from a
// sequence at creation and never changes.
type ServiceOrder struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber string    `gorm:"uniqueIndex;not null"`
	VehicleID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Status      string    `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Observations string   `gorm:"type:text"`
	// Total is derived: always the sum of the items' subtotals.
	Total       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CreatedBy   *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt   time.Time       `gorm:"index"`
	CompletedAt *time.Time

	Vehicle  *Vehicle  `gorm:"foreignKey:VehicleID"`
	Customer *Customer `gorm:"foreignKey:CustomerID"`
	Items    []ServiceItem `gorm:"foreignKey:ServiceOrderID;constraint:OnDelete:CASCADE"`
}

// ServiceItem is a line within an order: either a consumed inventory product
// or a labor/service charge. Subtotal is always recomputed as
// quantity * unit_price, never trusted from input.
type ServiceItem struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ServiceOrderID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ItemType       string     `gorm:"type:varchar(10);not null;default:'SERVICE'"`
	ProductID      *uuid.UUID `gorm:"type:uuid"` // required when ItemType = PRODUCT
	Description    string     `gorm:"not null"`
	Quantity       int        `gorm:"not null;default:1"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt      time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
