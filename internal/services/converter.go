package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path"
	"strings"
	"time"

	"github.com/Conceptual-Machines/tuning-api/internal/curve"
	"github.com/Conceptual-Machines/tuning-api/internal/logger"
	"github.com/Conceptual-Machines/tuning-api/internal/tuning"
	"golang.org/x/sync/errgroup"
)

const (
	scaleExtension   = ".scl"
	curveExtension   = ".curve16bit"
	defaultCurveName = "scale" + curveExtension
	defaultWorkers   = 4
)

var (
	// ErrNoScale is returned when a conversion has no scale text.
	ErrNoScale = errors.New("no scale selected")
	// ErrInvalidOffset is returned for a NaN or infinite cents offset.
	ErrInvalidOffset = errors.New("invalid cents offset")
)

// ConversionRequest holds the raw documents of one conversion.
// An empty KeymapText selects the identity keymap sized to the scale.
type ConversionRequest struct {
	ScaleText   string
	KeymapText  string
	CentsOffset float64
	// Filename is the uploaded scale file name, used to name the curve
	Filename string
}

// ConversionResult is a decoded scale and keymap with the curve built from them.
type ConversionResult struct {
	Scale         *tuning.Scale
	Keymap        *tuning.Keymap
	DefaultKeymap bool
	Curve         curve.Curve
	Filename      string
	Duration      time.Duration
}

// Converter turns scale and keymap documents into pitch curves.
type Converter struct {
	workers int
}

func NewConverter(workers int) *Converter {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Converter{workers: workers}
}

// Convert decodes both documents and generates the curve.
func (c *Converter) Convert(req ConversionRequest) (*ConversionResult, error) {
	start := time.Now()

	if math.IsNaN(req.CentsOffset) || math.IsInf(req.CentsOffset, 0) {
		return nil, ErrInvalidOffset
	}
	if strings.TrimSpace(req.ScaleText) == "" {
		return nil, ErrNoScale
	}

	scale, err := tuning.ParseScale(req.ScaleText)
	if err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}

	result := &ConversionResult{
		Scale:    scale,
		Filename: CurveFilename(req.Filename),
	}

	if strings.TrimSpace(req.KeymapText) == "" {
		result.Keymap = tuning.DefaultMap(len(scale.Notes))
		result.DefaultKeymap = true
	} else {
		keymap, err := tuning.ParseKeymap(req.KeymapText)
		if err != nil {
			return nil, fmt.Errorf("keymap: %w", err)
		}
		result.Keymap = keymap
	}

	result.Curve = curve.Generate(result.Scale, result.Keymap, req.CentsOffset)
	result.Duration = time.Since(start)

	logger.Debug("Curve generated", logger.Fields{
		"scale":          scale.Description,
		"notes":          len(scale.Notes),
		"keymap_size":    result.Keymap.Size,
		"default_keymap": result.DefaultKeymap,
		"cents_offset":   req.CentsOffset,
	})

	return result, nil
}

// ConvertBatch runs independent conversions concurrently. Results are in
// request order. The first failure cancels the remaining conversions and is
// returned annotated with the failing request's position and filename.
func (c *Converter) ConvertBatch(ctx context.Context, reqs []ConversionRequest) ([]*ConversionResult, error) {
	results := make([]*ConversionResult, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := c.Convert(req)
			if err != nil {
				return fmt.Errorf("job %d (%s): %w", i, req.Filename, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CurveFilename derives the curve file name from a scale file name:
// "foo.scl" becomes "foo.curve16bit". Directory parts are dropped.
func CurveFilename(scaleName string) string {
	name := strings.TrimSpace(scaleName)
	if name == "" {
		return defaultCurveName
	}
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		return defaultCurveName
	}
	if strings.EqualFold(path.Ext(name), scaleExtension) {
		name = name[:len(name)-len(scaleExtension)]
	}
	return name + curveExtension
}
