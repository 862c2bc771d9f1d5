package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/Conceptual-Machines/tuning-api/internal/logger"
	"github.com/Conceptual-Machines/tuning-api/internal/metrics"
	"github.com/Conceptual-Machines/tuning-api/internal/presets"
	"github.com/Conceptual-Machines/tuning-api/internal/services"
	"github.com/gin-gonic/gin"
)

// Converter turns raw documents into a curve
type Converter interface {
	Convert(req services.ConversionRequest) (*services.ConversionResult, error)
}

type CurveHandler struct {
	converter Converter
	presets   *presets.Loader
	metrics   *metrics.Client
	counters  *metrics.Counters
	spans     *metrics.SentryMetrics
}

func NewCurveHandler(converter Converter, loader *presets.Loader, cw *metrics.Client, counters *metrics.Counters) *CurveHandler {
	return &CurveHandler{
		converter: converter,
		presets:   loader,
		metrics:   cw,
		counters:  counters,
		spans:     metrics.NewSentryMetrics(),
	}
}

// CurveRequest is the JSON form of a conversion. Scale text takes precedence
// over ScalePreset, keymap text over KeymapPreset. A missing keymap selects
// the identity mapping sized to the scale.
type CurveRequest struct {
	Scale        string   `json:"scale"`
	ScalePreset  string   `json:"scale_preset"`
	Keymap       string   `json:"keymap"`
	KeymapPreset string   `json:"keymap_preset"`
	CentsOffset  *float64 `json:"cents_offset"`
	Filename     string   `json:"filename"`
}

// Generate converts a scale (and optional keymap) into a 256-byte pitch
// curve, returned as a file download. Accepts JSON or a multipart upload
// with "scl" and "kbm" files and a "cents_offset" field.
// POST /api/v1/curves
func (h *CurveHandler) Generate(c *gin.Context) {
	var (
		req    services.ConversionRequest
		source string
		err    error
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		source = metrics.SourceUpload
		req, err = h.fromUpload(c)
	} else {
		source = metrics.SourceJSON
		req, err = h.fromJSON(c)
	}
	if err != nil {
		h.metrics.RecordConversion(source, false)
		h.counters.RecordConversion(source, false, 0)
		respondBindError(c, err)
		return
	}

	result, err := h.converter.Convert(req)
	if err != nil {
		h.metrics.RecordConversion(source, false)
		h.counters.RecordConversion(source, false, 0)
		h.spans.RecordConversion(c.Request.Context(), 0, 0, 0, false)
		logger.Warn("Curve conversion rejected", logger.Fields{
			"request_id": c.GetString("request_id"),
			"filename":   req.Filename,
			"error":      err.Error(),
		})
		respondError(c, err)
		return
	}

	h.metrics.RecordConversion(source, true)
	h.counters.RecordConversion(source, true, len(result.Curve.Bytes()))
	h.spans.RecordConversion(c.Request.Context(), len(result.Scale.Notes), result.Keymap.Size, result.Duration, true)
	logger.LogConversion(c, result.Scale.Description, len(result.Scale.Notes), result.Keymap.Size, result.Duration)

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	c.Header("X-Scale-Notes", strconv.Itoa(len(result.Scale.Notes)))
	c.Header("X-Keymap-Default", strconv.FormatBool(result.DefaultKeymap))
	c.Data(http.StatusOK, contentTypeCurve, result.Curve.Bytes())
}

func (h *CurveHandler) fromJSON(c *gin.Context) (services.ConversionRequest, error) {
	var body CurveRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		return services.ConversionRequest{}, err
	}

	req := services.ConversionRequest{
		ScaleText:  body.Scale,
		KeymapText: body.Keymap,
		Filename:   body.Filename,
	}
	if body.CentsOffset != nil {
		req.CentsOffset = *body.CentsOffset
	}

	if req.ScaleText == "" && body.ScalePreset != "" {
		text, err := h.presets.Scale(body.ScalePreset)
		if err != nil {
			return req, err
		}
		req.ScaleText = text
		if req.Filename == "" {
			req.Filename = body.ScalePreset
		}
	}
	if req.KeymapText == "" && body.KeymapPreset != "" {
		text, err := h.presets.Keymap(body.KeymapPreset)
		if err != nil {
			return req, err
		}
		req.KeymapText = text
	}

	return req, nil
}

func (h *CurveHandler) fromUpload(c *gin.Context) (services.ConversionRequest, error) {
	var req services.ConversionRequest

	if err := c.Request.ParseMultipartForm(multipartMaxMemory); err != nil {
		return req, err
	}

	scale, scaleName, err := readFormFile(c, formFieldScale)
	if err != nil {
		return req, err
	}
	keymap, _, err := readFormFile(c, formFieldKeymap)
	if err != nil {
		return req, err
	}

	req.ScaleText = scale
	req.KeymapText = keymap
	req.Filename = scaleName

	if raw := strings.TrimSpace(c.PostForm(formFieldCentsOffset)); raw != "" {
		offset, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, fmt.Errorf("%w: %q", services.ErrInvalidOffset, raw)
		}
		req.CentsOffset = offset
	}

	return req, nil
}

// readFormFile returns the contents and name of an uploaded file, or empty
// strings when the field is absent
func readFormFile(c *gin.Context, field string) (string, string, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	text, err := readMultipartFile(fh)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s upload: %w", field, err)
	}
	return text, fh.Filename, nil
}

func readMultipartFile(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
