package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/tuning-api/internal/presets"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	presets *presets.Loader
}

func NewHealthHandler(loader *presets.Loader) *HealthHandler {
	return &HealthHandler{presets: loader}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	presetStatus := "ok"
	if _, err := h.presets.List(); err != nil {
		presetStatus = "unavailable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"presets": presetStatus,
	})
}
