package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fleetdash/service-fleet/internal/application"
	"github.com/fleetdash/service-fleet/internal/response"
)

// ScheduleHandler handles HTTP requests for schedule operations.
type ScheduleHandler struct {
	service *application.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(service *application.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// RegisterRoutes registers all schedule endpoints on the given router group.
func (h *ScheduleHandler) RegisterRoutes(r *gin.RouterGroup) {
	schedules := r.Group("/api/v1/schedules")
	{
		schedules.POST("", h.CreateSchedule)
		schedules.GET("", h.ListSchedules)
		schedules.GET("/today", h.TodaysSchedules)
		schedules.GET("/:id", h.GetSchedule)
		schedules.DELETE("/:id", h.DeleteSchedule)
	}
}

// CreateSchedule handles POST /api/v1/schedules.
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req application.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateSchedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListSchedules handles GET /api/v1/schedules.
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListSchedules(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// TodaysSchedules handles GET /api/v1/schedules/today.
func (h *ScheduleHandler) TodaysSchedules(c *gin.Context) {
	result, err := h.service.TodaysSchedules(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// GetSchedule handles GET /api/v1/schedules/:id.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid schedule id")
		return
	}

	result, err := h.service.GetSchedule(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteSchedule handles DELETE /api/v1/schedules/:id.
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid schedule id")
		return
	}

	if err := h.service.DeleteSchedule(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
