package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/Conceptual-Machines/tuning-api/internal/curve"
	"github.com/Conceptual-Machines/tuning-api/internal/metrics"
	"github.com/gin-gonic/gin"
)

const bytesToMB = 1024 * 1024

// MetricsHandler reports conversion totals and the served curve format
type MetricsHandler struct {
	counters *metrics.Counters
	version  string
}

func NewMetricsHandler(counters *metrics.Counters, version string) *MetricsHandler {
	return &MetricsHandler{counters: counters, version: version}
}

type MetricsResponse struct {
	Status      string            `json:"status"`
	Version     string            `json:"version"`
	Uptime      string            `json:"uptime"`
	Timestamp   string            `json:"timestamp"`
	Conversions ConversionMetrics `json:"conversions"`
	Curve       CurveFormat       `json:"curve"`
	Runtime     RuntimeMetrics    `json:"runtime"`
}

type ConversionMetrics struct {
	Succeeded  int64   `json:"succeeded"`
	Failed     int64   `json:"failed"`
	Uploads    int64   `json:"uploads"`
	CurveBytes int64   `json:"curve_bytes"`
	ErrorRate  float64 `json:"error_rate"`
	Last       string  `json:"last,omitempty"`
}

type CurveFormat struct {
	Extension      string `json:"extension"`
	Bytes          int    `json:"bytes"`
	Keys           int    `json:"keys"`
	ReferenceKey   int    `json:"reference_key"`
	ReferenceUnits int    `json:"reference_units"`
	UnitsPerCent   string `json:"units_per_cent"`
}

type RuntimeMetrics struct {
	Goroutines int    `json:"goroutines"`
	HeapMB     uint64 `json:"heap_mb"`
}

// GetMetrics returns conversion totals since start-up
// GET /api/metrics
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	snap := h.counters.Snapshot()

	conversions := ConversionMetrics{
		Succeeded:  snap.Conversions,
		Failed:     snap.Failures,
		Uploads:    snap.Uploads,
		CurveBytes: snap.CurveBytes,
	}
	if total := snap.Conversions + snap.Failures; total > 0 {
		conversions.ErrorRate = float64(snap.Failures) / float64(total)
	}
	if !snap.LastConversion.IsZero() {
		conversions.Last = snap.LastConversion.UTC().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, MetricsResponse{
		Status:      "healthy",
		Version:     h.version,
		Uptime:      snap.Uptime.Round(time.Millisecond).String(),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Conversions: conversions,
		Curve: CurveFormat{
			Extension:      ".curve16bit",
			Bytes:          curve.Size,
			Keys:           curve.Keys,
			ReferenceKey:   curve.ReferenceKey,
			ReferenceUnits: curve.ReferenceUnits,
			UnitsPerCent:   "256/100",
		},
		Runtime: RuntimeMetrics{
			Goroutines: runtime.NumGoroutine(),
			HeapMB:     mem.HeapAlloc / bytesToMB,
		},
	})
}
