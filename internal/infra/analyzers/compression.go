package analyzers

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/fotoproof/fotoproof/internal/domain/analysis"
)

// Compression estimates recompression damage: bytes-per-pixel ratio, the
// fraction of 8x8 block boundaries with luminance discontinuities, and a
// derived quality estimate.
type Compression struct {
	// BoundaryDelta is the luminance jump at an 8x8 boundary counted as an
	// artifact.
	BoundaryDelta float64
	// DensityThreshold flags the artifact-density fraction above it.
	DensityThreshold float64
	// RatioThreshold flags bytes-per-pixel above it (recompression bloat).
	RatioThreshold float64
	// QualityThreshold flags a derived quality estimate below it.
	QualityThreshold float64
}

func NewCompression() *Compression {
	return &Compression{
		BoundaryDelta:    12,
		DensityThreshold: 0.25,
		RatioThreshold:   2.0,
		QualityThreshold: 70,
	}
}

func (a *Compression) Name() analysis.Kind { return analysis.KindCompression }

func (a *Compression) Analyze(ctx context.Context, img *analysis.Image) analysis.Record {
	return run(analysis.KindCompression, 50, func() analysis.Record {
		w, h := img.Width, img.Height
		ratio := float64(len(img.Raw)) / float64(w*h)

		// Scan vertical and horizontal 8x8 block boundaries for luminance
		// jumps larger than the delta.
		var boundaries, exceeded int
		for x := 8; x < w; x += 8 {
			for y := 0; y < h; y++ {
				boundaries++
				if math.Abs(img.Luma(x, y)-img.Luma(x-1, y)) > a.BoundaryDelta {
					exceeded++
				}
			}
		}
		for y := 8; y < h; y += 8 {
			for x := 0; x < w; x++ {
				boundaries++
				if math.Abs(img.Luma(x, y)-img.Luma(x, y-1)) > a.BoundaryDelta {
					exceeded++
				}
			}
		}
		var density float64
		if boundaries > 0 {
			density = float64(exceeded) / float64(boundaries)
		}

		quality, fromDQT := estimateJPEGQuality(img.Raw)
		if !fromDQT {
			quality = clamp(100-density*120, 1, 100)
		}

		var indicators []string
		if density > a.DensityThreshold {
			indicators = append(indicators, fmt.Sprintf(
				"High block-boundary artifact density (%.2f)", density))
		}
		if ratio > a.RatioThreshold {
			indicators = append(indicators, fmt.Sprintf(
				"Unusually high compression ratio (%.2f bytes/pixel)", ratio))
		}
		if quality < a.QualityThreshold {
			indicators = append(indicators, fmt.Sprintf(
				"Estimated quality %.0f below %.0f", quality, a.QualityThreshold))
		}
		if indicators == nil {
			indicators = []string{}
		}

		score := clamp(100-25*float64(len(indicators)), 0, 100)
		return analysis.Record{
			Analyzer:   analysis.KindCompression,
			Score:      score,
			Confidence: 100 - score,
			Detected:   len(indicators) > 0,
			Indicators: indicators,
			Metrics: map[string]float64{
				"compression_ratio": ratio,
				"artifact_density":  density,
				"estimated_quality": quality,
			},
		}
	})
}

// estimateJPEGQuality derives an approximate encode quality from the first
// luminance quantization table. The table scales roughly linearly with
// (100-q) above q=50, so the value sum maps back to a usable estimate.
func estimateJPEGQuality(raw []byte) (float64, bool) {
	if len(raw) < 4 || raw[0] != 0xFF || raw[1] != 0xD8 {
		return 0, false
	}
	i := 2
	for i+4 <= len(raw) && raw[i] == 0xFF {
		marker := raw[i+1]
		if marker == 0xDA || marker == 0xD9 {
			break
		}
		segLen := int(binary.BigEndian.Uint16(raw[i+2 : i+4]))
		if segLen < 2 || i+2+segLen > len(raw) {
			break
		}
		if marker == 0xDB && segLen >= 67 {
			// segment: len(2) precision/id(1) then 64 table values
			var sum int
			for j := i + 5; j < i+5+64 && j < len(raw); j++ {
				sum += int(raw[j])
			}
			return clamp(100-float64(sum)/83, 1, 100), true
		}
		i += 2 + segLen
	}
	return 0, false
}
