package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/tuning-api/internal/presets"
	"github.com/gin-gonic/gin"
)

// PresetHandler serves the bundled scale and keymap documents
type PresetHandler struct {
	loader *presets.Loader
}

func NewPresetHandler(loader *presets.Loader) *PresetHandler {
	return &PresetHandler{loader: loader}
}

// List returns every bundled preset
// GET /api/v1/presets
func (h *PresetHandler) List(c *gin.Context) {
	list, err := h.loader.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"presets": list})
}

// Get returns the raw text of one preset
// GET /api/v1/presets/:name
func (h *PresetHandler) Get(c *gin.Context) {
	text, kind, err := h.loader.Get(c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("X-Preset-Kind", string(kind))
	c.Data(http.StatusOK, contentTypeText, []byte(text))
}
