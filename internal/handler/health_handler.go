package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	apiKeyConfigured bool
}

// NewHealthHandler creates a new HealthHandler. Readiness depends only on
// whether a model API key is configured.
func NewHealthHandler(apiKeyConfigured bool) *HealthHandler {
	return &HealthHandler{apiKeyConfigured: apiKeyConfigured}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if !h.apiKeyConfigured {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "model API key not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
