package analyzers

import (
	"context"
	"fmt"
	"math"

	"github.com/fotoproof/fotoproof/internal/domain/analysis"
)

// Noise isolates high-frequency residue with a Laplacian filter and checks
// whether it looks like natural sensor noise: genuine sensors leave a
// measurable, fairly uniform residual; synthetic or smoothed content is
// either too clean or oddly distributed.
type Noise struct {
	StdFloor            float64 // natural sensors never drop below this residual std
	UniformityThreshold float64 // histogram std/mean above this is unnatural
	MeanCeiling         float64 // residual mean above this is artifact noise
}

func NewNoise() *Noise {
	return &Noise{StdFloor: 2.0, UniformityThreshold: 4.0, MeanCeiling: 25}
}

func (a *Noise) Name() analysis.Kind { return analysis.KindNoise }

func (a *Noise) Analyze(ctx context.Context, img *analysis.Image) analysis.Record {
	return run(analysis.KindNoise, 50, func() analysis.Record {
		w, h := img.Width, img.Height
		if w < 3 || h < 3 {
			return analysis.Record{
				Analyzer:   analysis.KindNoise,
				Score:      50,
				Indicators: []string{"image too small for noise analysis"},
			}
		}

		residual := make([]float64, 0, (w-2)*(h-2))
		for y := 1; y < h-1; y++ {
			for x := 1; x < w-1; x++ {
				lap := 4*img.Luma(x, y) -
					img.Luma(x-1, y) - img.Luma(x+1, y) -
					img.Luma(x, y-1) - img.Luma(x, y+1)
				residual = append(residual, lap)
			}
		}

		noiseStd := stddev(residual)
		var absSum float64
		absolute := make([]float64, len(residual))
		for i, v := range residual {
			absolute[i] = math.Abs(v)
			absSum += absolute[i]
		}
		noiseMean := absSum / float64(len(residual))

		// Histogram of the absolute residual; uniformity is the spread of
		// bin occupancy relative to its mean.
		const bins = 32
		counts := make([]float64, bins)
		for _, v := range absolute {
			b := int(v / 8)
			if b >= bins {
				b = bins - 1
			}
			counts[b]++
		}
		uniformity := 0.0
		if m := mean(counts); m > 0 {
			uniformity = stddev(counts) / m
		}

		var indicators []string
		if noiseStd < a.StdFloor {
			indicators = append(indicators, fmt.Sprintf(
				"Noise level %.2f below natural sensor floor", noiseStd))
		}
		if uniformity > a.UniformityThreshold {
			indicators = append(indicators, fmt.Sprintf(
				"Noise distribution non-uniformity %.2f", uniformity))
		}
		if noiseMean > a.MeanCeiling {
			indicators = append(indicators, fmt.Sprintf(
				"Excessive noise artifacts (mean %.1f)", noiseMean))
		}
		if indicators == nil {
			indicators = []string{}
		}

		score := clamp(100-30*float64(len(indicators)), 0, 100)
		return analysis.Record{
			Analyzer:   analysis.KindNoise,
			Score:      score,
			Confidence: 100 - score,
			Detected:   len(indicators) > 0,
			Indicators: indicators,
			Metrics: map[string]float64{
				"noise_std":        noiseStd,
				"noise_mean":       noiseMean,
				"noise_uniformity": uniformity,
			},
		}
	})
}
