package handler

import (
	"net/http"

	"shalom/internal/dto"
	"shalom/internal/middleware"
	"shalom/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdenesHandler struct{ svc service.OrderService }

func NewOrdenesHandler(svc service.OrderService) *OrdenesHandler {
	return &OrdenesHandler{svc: svc}
}

// Crear godoc
// @Summary Alta de orden de servicio
// @Tags ordenes
// @Accept json
// @Produce json
// @Param body body dto.CreateOrderRequest true "Orden"
// @Success 201 {object} dto.OrderResponse
// @Router /v1/ordenes [post]
func (h *OrdenesHandler) Crear(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	order, err := h.svc.Create(c.Request.Context(), req, claims.UserID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.OrderToResponse(order))
}

func (h *OrdenesHandler) Listar(c *gin.Context) {
	var filter dto.OrderFilter
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

func (h *OrdenesHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.OrderToResponse(order))
}

func (h *OrdenesHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	order, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.OrderToResponse(order))
}

func (h *OrdenesHandler) AgregarItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.OrderItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	order, err := h.svc.AddItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.OrderToResponse(order))
}

func (h *OrdenesHandler) QuitarItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	itemID, ok := parseParam(c, "itemId")
	if !ok {
		return
	}
	order, err := h.svc.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.OrderToResponse(order))
}

// Completar godoc
// @Summary Completa una orden y descuenta stock de los items de producto
// @Tags ordenes
// @Produce json
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} apierror.APIError "Stock insuficiente o estado inválido"
// @Router /v1/ordenes/{id}/completar [post]
func (h *OrdenesHandler) Completar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	order, err := h.svc.Complete(c.Request.Context(), id, claims.UserID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.OrderToResponse(order))
}

func (h *OrdenesHandler) Cancelar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.svc.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.OrderToResponse(order))
}

func (h *OrdenesHandler) Estadisticas(c *gin.Context) {
	stats, err := h.svc.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
