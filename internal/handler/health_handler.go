package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/KanalKids/kanalkids_api/internal/utils"
)

// HealthHandler serves the service health endpoint.
type HealthHandler struct{}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	utils.Success(c, 200, "OK", gin.H{"status": "healthy"})
}
