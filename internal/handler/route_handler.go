package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fleetdash/service-fleet/internal/application"
	"github.com/fleetdash/service-fleet/internal/response"
)

// RouteHandler handles HTTP requests for route operations.
type RouteHandler struct {
	service *application.RouteService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(service *application.RouteService) *RouteHandler {
	return &RouteHandler{service: service}
}

// RegisterRoutes registers all route endpoints on the given router group.
func (h *RouteHandler) RegisterRoutes(r *gin.RouterGroup) {
	routes := r.Group("/api/v1/routes")
	{
		routes.POST("", h.CreateRoute)
		routes.GET("", h.ListRoutes)
		routes.GET("/:id", h.GetRoute)
		routes.GET("/:id/stops", h.GetRouteStops)
		routes.GET("/:id/polyline", h.GetRoutePolyline)
		routes.PUT("/:id", h.UpdateRoute)
		routes.DELETE("/:id", h.DeleteRoute)
		routes.POST("/snap", h.SnapToRoad)
	}
}

// CreateRoute handles POST /api/v1/routes.
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var req application.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateRoute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListRoutes handles GET /api/v1/routes.
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	page, limit := parsePagination(c)
	search := c.Query("search")

	result, err := h.service.ListRoutes(c.Request.Context(), page, limit, search)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetRoute handles GET /api/v1/routes/:id.
func (h *RouteHandler) GetRoute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid route id")
		return
	}

	result, err := h.service.GetRoute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// GetRouteStops handles GET /api/v1/routes/:id/stops.
func (h *RouteHandler) GetRouteStops(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid route id")
		return
	}

	result, err := h.service.RouteStops(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// GetRoutePolyline handles GET /api/v1/routes/:id/polyline.
func (h *RouteHandler) GetRoutePolyline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid route id")
		return
	}

	result, err := h.service.RoutePolyline(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateRoute handles PUT /api/v1/routes/:id.
func (h *RouteHandler) UpdateRoute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid route id")
		return
	}

	var req application.UpdateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateRoute(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteRoute handles DELETE /api/v1/routes/:id.
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid route id")
		return
	}

	if err := h.service.DeleteRoute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SnapToRoad handles POST /api/v1/routes/snap.
func (h *RouteHandler) SnapToRoad(c *gin.Context) {
	var req application.SnapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SnapToRoad(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
