package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Conceptual-Machines/tuning-api/internal/presets"
	"github.com/Conceptual-Machines/tuning-api/internal/tuning"
	"github.com/gin-gonic/gin"
)

// TuningHandler exposes the scale and keymap decoders on their own, for
// front-ends that inspect documents before converting them.
type TuningHandler struct{}

func NewTuningHandler() *TuningHandler {
	return &TuningHandler{}
}

type IntervalsRequest struct {
	Tokens []string `json:"tokens" binding:"required"`
}

type Interval struct {
	Token string  `json:"token"`
	Cents float64 `json:"cents"`
}

type IntervalsResponse struct {
	Intervals []Interval `json:"intervals"`
}

// ParseIntervals converts pitch tokens (ratios, integers or cents) to cents
// POST /api/v1/intervals/parse
func (h *TuningHandler) ParseIntervals(c *gin.Context) {
	var req IntervalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if len(req.Tokens) > maxIntervalTokens {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("too many tokens (max %d)", maxIntervalTokens)})
		return
	}

	resp := IntervalsResponse{Intervals: make([]Interval, 0, len(req.Tokens))}
	for _, token := range req.Tokens {
		cents, err := tuning.ParseInterval(token)
		if err != nil {
			respondError(c, err)
			return
		}
		resp.Intervals = append(resp.Intervals, Interval{Token: strings.TrimSpace(token), Cents: cents})
	}

	c.JSON(http.StatusOK, resp)
}

type DocumentRequest struct {
	Text string `json:"text" binding:"required"`
}

type ScaleResponse struct {
	*tuning.Scale
	Octave float64 `json:"octave"`
}

// ParseScale decodes a scale document
// POST /api/v1/scales/parse
func (h *TuningHandler) ParseScale(c *gin.Context) {
	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	scale, err := tuning.ParseScale(req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ScaleResponse{Scale: scale, Octave: scale.Octave()})
}

type FormatScaleRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Notes       []float64 `json:"notes" binding:"required"`
}

type FormatScaleResponse struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// FormatScale renders notes in cents as a scale document
// POST /api/v1/scales/format
func (h *TuningHandler) FormatScale(c *gin.Context) {
	var req FormatScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	name := strings.TrimSuffix(strings.TrimSpace(req.Name), ".scl")
	if name == "" {
		name = defaultScaleName
	}

	scale := &tuning.Scale{Description: req.Description, Notes: req.Notes}
	text, err := scale.Format(name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, FormatScaleResponse{
		Filename: name + ".scl",
		Text:     text,
	})
}

// ParseKeymap decodes a keymap document
// POST /api/v1/keymaps/parse
func (h *TuningHandler) ParseKeymap(c *gin.Context) {
	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	keymap, err := tuning.ParseKeymap(req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, keymap)
}

// DefaultKeymap returns the identity keymap of the requested size
// GET /api/v1/keymaps/default?size=N
func (h *TuningHandler) DefaultKeymap(c *gin.Context) {
	size, err := strconv.Atoi(c.Query("size"))
	if err != nil || size < 0 || size > maxKeymapSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("size must be an integer between 0 and %d", maxKeymapSize),
		})
		return
	}

	c.JSON(http.StatusOK, tuning.DefaultMap(size))
}

// respondBindError answers a request that could not be decoded. Oversized
// bodies and unknown presets keep their own status codes.
func respondBindError(c *gin.Context, err error) {
	if isTooLarge(err) || errors.Is(err, presets.ErrNotFound) {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
