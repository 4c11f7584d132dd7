package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fleetdash/service-fleet/internal/application"
	"github.com/fleetdash/service-fleet/internal/response"
)

// StudentHandler handles HTTP requests for student record operations.
type StudentHandler struct {
	service *application.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(service *application.StudentService) *StudentHandler {
	return &StudentHandler{service: service}
}

// RegisterRoutes registers all student endpoints on the given router group.
func (h *StudentHandler) RegisterRoutes(r *gin.RouterGroup) {
	students := r.Group("/api/v1/students")
	{
		students.POST("", h.CreateStudent)
		students.GET("", h.ListStudents)
		students.GET("/:id", h.GetStudent)
		students.PUT("/:id", h.UpdateStudent)
		students.DELETE("/:id", h.DeleteStudent)
	}
}

// CreateStudent handles POST /api/v1/students.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req application.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListStudents handles GET /api/v1/students.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	page, limit := parsePagination(c)
	search := c.Query("search")

	result, err := h.service.ListStudents(c.Request.Context(), page, limit, search)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetStudent handles GET /api/v1/students/:id.
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return
	}

	result, err := h.service.GetStudent(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateStudent handles PUT /api/v1/students/:id.
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return
	}

	var req application.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateStudent(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteStudent handles DELETE /api/v1/students/:id.
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return
	}

	if err := h.service.DeleteStudent(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
