package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/creditops/disputeflow/pkg/services"
	"github.com/creditops/disputeflow/pkg/workflow"
)

// writeServiceError maps service and workflow errors onto HTTP status codes.
// Precondition failures (wrong phase, missing result) are conflicts: the
// request was well-formed but the case is not in a state that allows it.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case services.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrWrongPhase),
		errors.Is(err, workflow.ErrNoConversationResult):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
