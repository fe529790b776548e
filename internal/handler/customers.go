package handler

import (
	"net/http"

	"shalom/internal/dto"
	"shalom/internal/middleware"
	"shalom/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientesHandler struct{ svc service.CRMService }

func NewClientesHandler(svc service.CRMService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	customer, err := h.svc.CreateCustomer(c.Request.Context(), req, claims.UserID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.CustomerToResponse(customer, false))
}

func (h *ClientesHandler) Listar(c *gin.Context) {
	var filter dto.CustomerFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListCustomers(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID returns the customer with its vehicles embedded.
func (h *ClientesHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	customer, err := h.svc.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.CustomerToResponse(customer, true))
}

func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	customer, err := h.svc.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.CustomerToResponse(customer, false))
}

// Eliminar removes the customer and, in cascade, its vehicles.
func (h *ClientesHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClientesHandler) Estadisticas(c *gin.Context) {
	stats, err := h.svc.CustomerStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
