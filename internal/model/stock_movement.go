package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de movimiento de stock.
const (
	MovementCompra = "COMPRA" // entrada: suma al stock
	MovementVenta  = "VENTA"  // salida: resta del stock, nunca por debajo de 0
	MovementAjuste = "AJUSTE" // fija el stock en el valor indicado
)

// StockMovement registra cada cambio de stock de un producto.
// Movements are NEVER modified or deleted; creating one is the only
// sanctioned way to change Product.StockQuantity.
type StockMovement struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	MovementType string    `gorm:"type:varchar(10);not null"`
	// Quantity is the delta for COMPRA/VENTA (always positive) and the
	// absolute target level for AJUSTE.
	Quantity    int     `gorm:"not null"`
	Reason      *string `gorm:"type:text"`
	Reference   *string `gorm:"type:varchar(100)"` // e.g. "Orden de servicio OS-00042"
	PerformedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
