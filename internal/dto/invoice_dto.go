package dto

import "github.com/shopspring/decimal"

type InvoiceFilter struct {
	Status     string `form:"estado" validate:"omitempty,oneof=ISSUED PAID CANCELLED all"`
	CustomerID string `form:"cliente" validate:"omitempty,uuid"`
	DateFrom   string `form:"desde"` // YYYY-MM-DD over issue_date
	DateTo     string `form:"hasta"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type CreateInvoiceRequest struct {
	ServiceOrderID string  `json:"service_order_id" validate:"required,uuid"`
	InvoiceType    string  `json:"invoice_type"     validate:"required,oneof=A B C"`
	DueDate        *string `json:"due_date"` // YYYY-MM-DD
	Notes          *string `json:"notes"`
}

type InvoiceResponse struct {
	ID             string          `json:"id"`
	InvoiceNumber  string          `json:"invoice_number"`
	InvoiceType    string          `json:"invoice_type"`
	ServiceOrderID string          `json:"service_order_id"`
	OrderNumber    string          `json:"order_number,omitempty"`
	CustomerID     string          `json:"customer_id"`
	CustomerName   string          `json:"customer_name,omitempty"`
	IssueDate      string          `json:"issue_date"`
	DueDate        *string         `json:"due_date"`
	PaidDate       *string         `json:"paid_date"`
	Status         string          `json:"status"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
	Notes          *string         `json:"notes"`
	PDFUrl         *string         `json:"pdf_url"`
}

type InvoiceListResponse struct {
	Data  []InvoiceResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type InvoiceStatsResponse struct {
	TotalInvoices  int64           `json:"total_invoices"`
	Issued         int64           `json:"issued"`
	Paid           int64           `json:"paid"`
	Cancelled      int64           `json:"cancelled"`
	TotalBilled    decimal.Decimal `json:"total_billed"`    // issued + paid
	TotalCollected decimal.Decimal `json:"total_collected"` // paid only
}
