package handlers

import (
	"errors"
	"net/http"

	"github.com/epeers/frontier/internal/frontier"
	"github.com/epeers/frontier/internal/models"
	"github.com/epeers/frontier/internal/services"
	"github.com/epeers/frontier/internal/solver"
	"github.com/gin-gonic/gin"
)

// classifyError maps service and frontier errors onto an HTTP status and body
func classifyError(err error) (int, models.ErrorResponse) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, frontier.ErrDimensionMismatch),
		errors.Is(err, frontier.ErrInvalidStatistics),
		errors.Is(err, frontier.ErrInvalidScan),
		errors.Is(err, solver.ErrInvalidProblem):
		return http.StatusBadRequest, models.ErrorResponse{Error: "bad_request", Message: err.Error()}
	case errors.Is(err, services.ErrDatasetNotFound):
		return http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: err.Error()}
	case errors.Is(err, frontier.ErrInvalidWeights),
		errors.Is(err, frontier.ErrUndefinedRatio),
		errors.Is(err, solver.ErrRejectedInitial):
		return http.StatusUnprocessableEntity, models.ErrorResponse{Error: "unprocessable", Message: err.Error()}
	case errors.Is(err, services.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, models.ErrorResponse{Error: "unavailable", Message: err.Error()}
	default:
		return http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: err.Error()}
	}
}

func respondError(c *gin.Context, err error) {
	status, body := classifyError(err)
	c.JSON(status, body)
}
