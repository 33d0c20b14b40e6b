// Package handlers provides HTTP handlers for the composition editor API
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
)

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, opc.ErrTreeTooDeep), errors.Is(err, opc.ErrAreaTooLarge):
		return http.StatusUnprocessableEntity
	case errors.Is(err, opc.ErrBlueprintNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *logging.ChanneledLogger, operation string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.LogError(logging.ChannelHTTP, operation, err, map[string]any{"path": c.Request.URL.Path})
	} else {
		logger.HTTP().Debug("Request rejected", "operation", operation, "status", status, "error", err.Error())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
}
