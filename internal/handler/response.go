package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripflow/internal/sim"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	c.JSON(mapErrorToHTTPStatus(err), ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps registry errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, sim.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, sim.ErrNotCancellable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
