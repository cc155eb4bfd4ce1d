package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness for one service.
type HealthHandler struct {
	service string
}

// NewHealthHandler creates a health handler tagged with the service name ("mdm" or "dem").
func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health returns the health status of the service
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
	})
}
