package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fleetdash/service-fleet/internal/application"
	"github.com/fleetdash/service-fleet/internal/response"
)

// BusHandler handles HTTP requests for fleet vehicle operations.
type BusHandler struct {
	service *application.BusService
}

// NewBusHandler creates a new BusHandler.
func NewBusHandler(service *application.BusService) *BusHandler {
	return &BusHandler{service: service}
}

// RegisterRoutes registers all bus endpoints on the given router group.
func (h *BusHandler) RegisterRoutes(r *gin.RouterGroup) {
	buses := r.Group("/api/v1/buses")
	{
		buses.POST("", h.CreateBus)
		buses.GET("", h.ListBuses)
		buses.GET("/:id", h.GetBus)
		buses.PUT("/:id", h.UpdateBus)
		buses.DELETE("/:id", h.DeleteBus)
	}
}

// CreateBus handles POST /api/v1/buses.
func (h *BusHandler) CreateBus(c *gin.Context) {
	var req application.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBus(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListBuses handles GET /api/v1/buses.
func (h *BusHandler) ListBuses(c *gin.Context) {
	page, limit := parsePagination(c)
	search := c.Query("search")

	result, err := h.service.ListBuses(c.Request.Context(), page, limit, search)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBus handles GET /api/v1/buses/:id.
func (h *BusHandler) GetBus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid bus id")
		return
	}

	result, err := h.service.GetBus(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateBus handles PUT /api/v1/buses/:id.
func (h *BusHandler) UpdateBus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid bus id")
		return
	}

	var req application.UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateBus(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteBus handles DELETE /api/v1/buses/:id.
func (h *BusHandler) DeleteBus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid bus id")
		return
	}

	if err := h.service.DeleteBus(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
