package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unidades de medida permitidas para un producto.
const (
	UnitLitro  = "LITRO"
	UnitUnidad = "UNIDAD"
	UnitPack   = "PACK"
)

// Product is a catalog entry (oils, filters, fluids) with on-hand stock.
// stock_quantity is only ever written through a StockMovement — see
// service.StockService.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code        string    `gorm:"uniqueIndex;not null"`
	Name        string    `gorm:"index;not null"`
	Category    string    `gorm:"index;not null"` // free string, categories are dynamic
	Brand       *string
	Description *string
	// StockQuantity never goes negative; enforced by the stock ledger.
	StockQuantity int             `gorm:"not null;default:0"`
	MinStock      int             `gorm:"not null;default:5"`
	Unit          string          `gorm:"type:varchar(10);not null;default:'UNIDAD'"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IsActive      bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock reports whether on-hand quantity is at or below the minimum.
func (p *Product) IsLowStock() bool { return p.StockQuantity <= p.MinStock }

// ProfitMargin returns (sale - purchase) / purchase * 100.
func (p *Product) ProfitMargin() decimal.Decimal {
	if p.PurchasePrice.IsZero() {
		return decimal.Zero
	}
	return p.SalePrice.Sub(p.PurchasePrice).
		Div(p.PurchasePrice).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}
