package analyzers

import (
	"context"
	"fmt"
	"math"

	"github.com/fotoproof/fotoproof/internal/domain/analysis"
)

// CopyMove finds duplicated regions by describing overlapping intensity
// blocks and matching the image against itself. Matches whose displacement
// falls in a plausible forged-patch range (not trivially close, not
// unrelated-far) count as suspicious.
type CopyMove struct {
	BlockSize   int
	Stride      int
	MinShift    float64 // below this a match is trivial
	MaxShiftPct float64 // fraction of the diagonal above which a match is unrelated
	ClusterSize int     // suspicious matches per derived region
	RegionLimit int     // regions at or above this fire detection
	MinFeatures int     // below this the analyzer short-circuits to neutral
}

func NewCopyMove() *CopyMove {
	return &CopyMove{
		BlockSize:   16,
		Stride:      8,
		MinShift:    24,
		MaxShiftPct: 0.6,
		ClusterSize: 10,
		RegionLimit: 2,
		MinFeatures: 64,
	}
}

func (a *CopyMove) Name() analysis.Kind { return analysis.KindCopyMove }

type blockPos struct{ x, y int }

func (a *CopyMove) Analyze(ctx context.Context, img *analysis.Image) analysis.Record {
	return run(analysis.KindCopyMove, 50, func() analysis.Record {
		w, h := img.Width, img.Height
		if w < a.BlockSize*2 || h < a.BlockSize*2 {
			return a.neutral("image too small for region matching")
		}

		// Describe each block by a quantized 4x4 grid of cell means. Flat
		// blocks carry no usable features and are skipped.
		buckets := make(map[string][]blockPos)
		features := 0
		for y := 0; y+a.BlockSize <= h; y += a.Stride {
			for x := 0; x+a.BlockSize <= w; x += a.Stride {
				desc, ok := a.describe(img, x, y)
				if !ok {
					continue
				}
				features++
				buckets[desc] = append(buckets[desc], blockPos{x, y})
			}
		}
		if features < a.MinFeatures {
			return a.neutral("too few detectable features")
		}

		maxShift := a.MaxShiftPct * math.Hypot(float64(w), float64(h))
		suspicious := 0
		for _, positions := range buckets {
			if len(positions) < 2 || len(positions) > 32 {
				// oversized buckets are repeating texture, not cloning
				continue
			}
			for i := 0; i < len(positions)-1; i++ {
				for j := i + 1; j < len(positions); j++ {
					d := math.Hypot(
						float64(positions[i].x-positions[j].x),
						float64(positions[i].y-positions[j].y),
					)
					if d > a.MinShift && d < maxShift {
						suspicious++
					}
				}
			}
		}

		regions := suspicious / a.ClusterSize
		detected := regions >= a.RegionLimit
		confidence := clamp(float64(regions)*20, 0, 100)
		score := 100 - confidence

		var indicators []string
		if detected {
			indicators = append(indicators, fmt.Sprintf(
				"Duplicated regions detected: %d suspicious matches in ~%d regions", suspicious, regions))
		}
		if indicators == nil {
			indicators = []string{}
		}
		return analysis.Record{
			Analyzer:   analysis.KindCopyMove,
			Score:      score,
			Confidence: confidence,
			Detected:   detected,
			Indicators: indicators,
			Metrics: map[string]float64{
				"suspicious_matches": float64(suspicious),
				"region_estimate":    float64(regions),
				"feature_blocks":     float64(features),
			},
		}
	})
}

// describe renders a block as a quantized 4x4 mean-intensity key.
// ok is false for featureless (near-flat) blocks.
func (a *CopyMove) describe(img *analysis.Image, bx, by int) (string, bool) {
	cell := a.BlockSize / 4
	var key [16]byte
	var values []float64
	for cy := 0; cy < 4; cy++ {
		for cx := 0; cx < 4; cx++ {
			var sum float64
			for y := by + cy*cell; y < by+(cy+1)*cell; y++ {
				for x := bx + cx*cell; x < bx+(cx+1)*cell; x++ {
					sum += img.Luma(x, y)
				}
			}
			m := sum / float64(cell*cell)
			values = append(values, m)
			key[cy*4+cx] = byte(int(m) / 8)
		}
	}
	if stddev(values) < 4 {
		return "", false
	}
	return string(key[:]), true
}

func (a *CopyMove) neutral(reason string) analysis.Record {
	return analysis.Record{
		Analyzer:   analysis.KindCopyMove,
		Score:      50,
		Indicators: []string{reason},
		Metrics:    map[string]float64{"suspicious_matches": 0, "region_estimate": 0},
	}
}
