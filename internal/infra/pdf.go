package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"shalom/internal/model"

	"github.com/go-pdf/fpdf"
)

// InvoicePDF renders A4 invoices to disk using go-pdf/fpdf.
type InvoicePDF struct {
	storagePath  string
	businessName string
}

func NewInvoicePDF(storagePath, businessName string) *InvoicePDF {
	return &InvoicePDF{storagePath: storagePath, businessName: businessName}
}

// GenerateInvoicePDF renders inv to {storagePath}/{FC-xxxxx}.pdf and returns
// the file name relative to the storage root.
func (g *InvoicePDF) GenerateInvoicePDF(inv *model.Invoice, order *model.ServiceOrder, customer *model.Customer) (string, error) {
	if err := os.MkdirAll(g.storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := inv.InvoiceNumber + ".pdf"
	filePath := filepath.Join(g.storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, g.businessName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, fmt.Sprintf("Factura %s  -  Tipo %s", inv.InvoiceNumber, inv.InvoiceType), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Fecha de emisión: "+inv.IssueDate.Format("02/01/2006"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Customer and order block ──────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	if customer != nil {
		pdf.CellFormat(contentW, 5, "Cliente: "+customer.FullName(), "", 1, "L", false, 0, "")
		pdf.CellFormat(contentW, 5, "Teléfono: "+customer.Phone, "", 1, "L", false, 0, "")
	}
	if order != nil {
		pdf.CellFormat(contentW, 5, "Orden de servicio: "+order.OrderNumber, "", 1, "L", false, 0, "")
		if order.Vehicle != nil {
			pdf.CellFormat(contentW, 5,
				fmt.Sprintf("Vehículo: %s %s - Patente %s", order.Vehicle.Brand, order.Vehicle.Model, order.Vehicle.Plate),
				"", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(3)

	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Item table ────────────────────────────────────────────────────────────
	col1 := contentW * 0.52 // description
	col2 := contentW * 0.12 // qty
	col3 := contentW * 0.18 // unit price
	col4 := contentW * 0.18 // subtotal

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Descripción", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "P. Unit", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	if order != nil {
		for _, item := range order.Items {
			descr := item.Description
			if len(descr) > 45 {
				descr = descr[:44] + "…"
			}
			pdf.CellFormat(col1, 6, descr, "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 6, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
			pdf.CellFormat(col3, 6, "$"+item.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
			pdf.CellFormat(col4, 6, "$"+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}
	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	labelW := contentW - col4
	pdf.CellFormat(labelW, 6, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "$"+inv.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 6, fmt.Sprintf("IVA %s%%", inv.TaxRate.StringFixed(0)), "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "$"+inv.TaxAmount.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 8, "TOTAL", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 8, "$"+inv.Total.StringFixed(2), "", 1, "R", false, 0, "")

	if inv.Notes != nil && *inv.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, "Notas: "+*inv.Notes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return fileName, nil
}
