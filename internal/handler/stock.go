package handler

import (
	"net/http"

	"shalom/internal/dto"
	"shalom/internal/middleware"
	"shalom/internal/service"

	"github.com/gin-gonic/gin"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

// RegistrarMovimiento godoc
// @Summary Registra un movimiento de stock (COMPRA, VENTA o AJUSTE)
// @Tags stock
// @Accept json
// @Produce json
// @Param body body dto.CreateMovementRequest true "Movimiento"
// @Success 201 {object} dto.CreateMovementResponse
// @Failure 409 {object} apierror.APIError "Stock insuficiente"
// @Router /v1/stock/movimientos [post]
func (h *StockHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.CreateMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	movement, product, err := h.svc.RegistrarMovimiento(c.Request.Context(), req, claims.UserID())
	if err != nil {
		respondError(c, err)
		return
	}

	movement.Product = product
	c.JSON(http.StatusCreated, dto.CreateMovementResponse{
		Movement: service.MovementToResponse(movement),
		Product:  service.ProductToResponse(product),
	})
}

func (h *StockHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListMovimientos(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
