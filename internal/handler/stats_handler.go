package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fleetdash/service-fleet/internal/application"
	"github.com/fleetdash/service-fleet/internal/response"
)

// StatsHandler serves the dashboard summary counts.
type StatsHandler struct {
	service *application.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service *application.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// RegisterRoutes registers the stats endpoint on the given router group.
func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/v1/stats", h.GetStats)
}

// GetStats handles GET /api/v1/stats.
func (h *StatsHandler) GetStats(c *gin.Context) {
	result, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
