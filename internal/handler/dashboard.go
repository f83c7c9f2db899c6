package handler

import (
	"net/http"
	"path/filepath"

	"stockatelier/internal/infra"
	"stockatelier/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc       service.DashboardService
	reportDir string
}

func NewDashboardHandler(svc service.DashboardService, reportDir string) *DashboardHandler {
	return &DashboardHandler{svc: svc, reportDir: reportDir}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Report renders the inventory overview as a downloadable PDF.
func (h *DashboardHandler) Report(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	lowStock, err := h.svc.LowStockItems(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	path, err := infra.GenerateInventoryReport(stats, lowStock, h.reportDir)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
