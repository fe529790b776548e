package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una factura. ISSUED is initial; PAID and CANCELLED are terminal.
const (
	InvoiceIssued    = "ISSUED"
	InvoicePaid      = "PAID"
	InvoiceCancelled = "CANCELLED"
)

// Tipos de factura.
const (
	InvoiceTypeA = "A"
	InvoiceTypeB = "B"
	InvoiceTypeC = "C"
)

// Invoice is a billing document derived from exactly one COMPLETED
// ServiceOrder. InvoiceNumber (FC-00001, ...) comes from a sequence and is
// never reused. TaxAmount and Total are derived from Subtotal and TaxRate.
type Invoice struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNumber  string    `gorm:"uniqueIndex;not null"`
	InvoiceType    string    `gorm:"type:varchar(5);not null;default:'B'"`
	ServiceOrderID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"` // at most one invoice per order
	CustomerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	IssueDate      time.Time `gorm:"not null;index"`
	DueDate        *time.Time
	PaidDate       *time.Time
	Status         string          `gorm:"type:varchar(20);not null;default:'ISSUED';index"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes          *string         `gorm:"type:text"`
	// PDFPath is relative to PDF_STORAGE_PATH
	PDFPath   *string `gorm:"column:pdf_path"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ServiceOrder *ServiceOrder `gorm:"foreignKey:ServiceOrderID"`
	Customer     *Customer     `gorm:"foreignKey:CustomerID"`
}
