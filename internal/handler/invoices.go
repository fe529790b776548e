package handler

import (
	"net/http"
	"path/filepath"

	"shalom/internal/apierror"
	"shalom/internal/dto"
	"shalom/internal/middleware"
	"shalom/internal/service"

	"github.com/gin-gonic/gin"
)

type FacturasHandler struct {
	svc     service.BillingService
	pdfRoot string
}

func NewFacturasHandler(svc service.BillingService, pdfRoot string) *FacturasHandler {
	return &FacturasHandler{svc: svc, pdfRoot: pdfRoot}
}

// Emitir godoc
// @Summary Emite una factura para una orden completada
// @Tags facturas
// @Accept json
// @Produce json
// @Param body body dto.CreateInvoiceRequest true "Factura"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 409 {object} apierror.APIError "Orden no completada o ya facturada"
// @Router /v1/facturas [post]
func (h *FacturasHandler) Emitir(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	inv, err := h.svc.Issue(c.Request.Context(), req, claims.UserID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.InvoiceToResponse(inv))
}

func (h *FacturasHandler) Listar(c *gin.Context) {
	var filter dto.InvoiceFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FacturasHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	inv, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.InvoiceToResponse(inv))
}

func (h *FacturasHandler) MarcarPagada(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	inv, err := h.svc.MarkPaid(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.InvoiceToResponse(inv))
}

func (h *FacturasHandler) Anular(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	inv, err := h.svc.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.InvoiceToResponse(inv))
}

// DescargarPDF streams the generated invoice PDF.
func (h *FacturasHandler) DescargarPDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	inv, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if inv.PDFPath == nil {
		c.JSON(http.StatusNotFound, apierror.New("La factura no tiene PDF generado"))
		return
	}
	// PDFPath is a bare file name; join keeps the download inside pdfRoot.
	c.FileAttachment(filepath.Join(h.pdfRoot, filepath.Base(*inv.PDFPath)), inv.InvoiceNumber+".pdf")
}

func (h *FacturasHandler) Estadisticas(c *gin.Context) {
	stats, err := h.svc.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
