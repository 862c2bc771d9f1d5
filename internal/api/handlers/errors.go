package handlers

import (
	"errors"
	"net/http"

	"github.com/Conceptual-Machines/tuning-api/internal/logger"
	"github.com/Conceptual-Machines/tuning-api/internal/presets"
	"github.com/Conceptual-Machines/tuning-api/internal/services"
	"github.com/Conceptual-Machines/tuning-api/internal/tuning"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to HTTP responses. Malformed documents are
// the caller's problem (400); anything unexpected is logged and reported.
func respondError(c *gin.Context, err error) {
	var (
		parseErr  *tuning.ParseError
		formatErr *tuning.FormatError
	)

	switch {
	case isTooLarge(err):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})

	case errors.Is(err, presets.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.As(err, &formatErr), errors.As(err, &parseErr):
		body := gin.H{"error": err.Error()}
		if formatErr != nil && formatErr.Line > 0 {
			body["line"] = formatErr.Line
		}
		if errors.As(err, &parseErr) {
			body["token"] = parseErr.Token
		}
		c.JSON(http.StatusBadRequest, body)

	case errors.Is(err, services.ErrNoScale), errors.Is(err, services.ErrInvalidOffset):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		logger.Error("Request failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Internal server error",
			"request_id": c.GetString("request_id"),
		})
	}
}

func isTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}
