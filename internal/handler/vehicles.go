package handler

import (
	"net/http"

	"shalom/internal/dto"
	"shalom/internal/service"

	"github.com/gin-gonic/gin"
)

type VehiculosHandler struct{ svc service.CRMService }

func NewVehiculosHandler(svc service.CRMService) *VehiculosHandler {
	return &VehiculosHandler{svc: svc}
}

func (h *VehiculosHandler) Crear(c *gin.Context) {
	var req dto.CreateVehicleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	vehicle, err := h.svc.CreateVehicle(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.VehicleToResponse(vehicle))
}

func (h *VehiculosHandler) Listar(c *gin.Context) {
	var filter dto.VehicleFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListVehicles(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VehiculosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	vehicle, err := h.svc.GetVehicle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.VehicleToResponse(vehicle))
}

// ObtenerPorPatente looks a vehicle up by plate, normalized first
// ("ab 123 cd" matches AB123CD).
func (h *VehiculosHandler) ObtenerPorPatente(c *gin.Context) {
	vehicle, err := h.svc.GetVehicleByPlate(c.Request.Context(), c.Param("patente"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.VehicleToResponse(vehicle))
}

func (h *VehiculosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateVehicleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	vehicle, err := h.svc.UpdateVehicle(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.VehicleToResponse(vehicle))
}

// ActualizarKilometraje rejects readings below the current mileage.
func (h *VehiculosHandler) ActualizarKilometraje(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateMileageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	vehicle, err := h.svc.UpdateMileage(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.VehicleToResponse(vehicle))
}

func (h *VehiculosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteVehicle(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
