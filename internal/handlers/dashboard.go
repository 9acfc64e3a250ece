package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/agiliza-api/internal/dto"
	"github.com/yukikurage/agiliza-api/internal/services"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
	log       *logrus.Logger
}

func NewDashboardHandler(dashboard *services.DashboardService, log *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		log:       log,
	}
}

// GetStats returns the dashboard statistics for the caller's visible tasks
func (h *DashboardHandler) GetStats(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	snapshot, err := h.dashboard.GetDashboard(c.Request.Context(), caller)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardDTO(*snapshot))
}
