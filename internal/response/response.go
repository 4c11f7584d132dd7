package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleetdash/service-fleet/internal/domain"
	"github.com/fleetdash/service-fleet/internal/domain/schedule"
)

// Envelope is the body shape every successful response uses.
type Envelope struct {
	Success bool        `json:"success"`
	Count   int64       `json:"count,omitempty"`
	PageNo  int         `json:"pageNO,omitempty"`
	Pages   int         `json:"pages,omitempty"`
	Data    interface{} `json:"data"`
}

type errorBody struct {
	Success    bool                 `json:"success"`
	Error      string               `json:"error"`
	Violations []schedule.Violation `json:"violations,omitempty"`
}

// OK writes a 200 with the standard envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 with the standard envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// NoContent writes a 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 carrying page metadata alongside the items.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	pages := 1
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
		if pages == 0 {
			pages = 1
		}
	}
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Count:   total,
		PageNo:  page,
		Pages:   pages,
		Data:    items,
	})
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorBody{Success: false, Error: msg})
}

// Error maps a domain error to the right status code and writes it.
func Error(c *gin.Context, err error) {
	var timingErr *schedule.TimingValidationError
	if errors.As(err, &timingErr) {
		c.JSON(http.StatusUnprocessableEntity, errorBody{
			Success:    false,
			Error:      timingErr.Error(),
			Violations: timingErr.Violations,
		})
		return
	}

	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, errorBody{Success: false, Error: err.Error()})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, errorBody{Success: false, Error: err.Error()})
	case domain.IsConflict(err):
		c.JSON(http.StatusConflict, errorBody{Success: false, Error: err.Error()})
	case domain.IsUnavailable(err):
		c.JSON(http.StatusBadGateway, errorBody{Success: false, Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorBody{Success: false, Error: "internal server error"})
	}
}
