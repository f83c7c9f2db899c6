package handler

import (
	"net/http"

	"stockatelier/internal/apierror"
	"stockatelier/internal/dto"
	"stockatelier/internal/service"

	"github.com/gin-gonic/gin"
)

type MaintenancesHandler struct{ svc service.MaintenanceService }

func NewMaintenancesHandler(svc service.MaintenanceService) *MaintenancesHandler {
	return &MaintenancesHandler{svc: svc}
}

func (h *MaintenancesHandler) List(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	recs, err := h.svc.List(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *MaintenancesHandler) Create(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return
	}
	rec, err := h.svc.Create(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *MaintenancesHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	mid, ok := idParam(c, "mid")
	if !ok {
		return
	}
	var req dto.MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return
	}
	rec, err := h.svc.Update(c.Request.Context(), id, mid, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *MaintenancesHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	mid, ok := idParam(c, "mid")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, mid); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
