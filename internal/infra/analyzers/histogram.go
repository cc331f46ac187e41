package analyzers

import (
	"context"
	"fmt"

	"github.com/fotoproof/fotoproof/internal/domain/analysis"
)

// Histogram inspects per-channel intensity distributions for the artificial
// gaps and spikes that tonal edits (levels, curves, recoloring) leave
// behind.
type Histogram struct {
	PeakLimit           int     // total peaks across channels above this is flagged
	GapLimit            int     // total gaps across channels above this is flagged
	UniformityThreshold float64 // combined-histogram std/mean above this is flagged
}

func NewHistogram() *Histogram {
	return &Histogram{PeakLimit: 15, GapLimit: 20, UniformityThreshold: 2.5}
}

func (a *Histogram) Name() analysis.Kind { return analysis.KindHistogram }

func (a *Histogram) Analyze(ctx context.Context, img *analysis.Image) analysis.Record {
	return run(analysis.KindHistogram, 50, func() analysis.Record {
		channels := [][]uint8{img.R, img.G, img.B}
		combined := make([]float64, 256)
		totalPeaks, totalGaps := 0, 0

		for _, ch := range channels {
			counts := make([]float64, 256)
			for _, v := range ch {
				counts[v]++
			}
			m := mean(counts)
			sd := stddev(counts)
			// Peaks sit more than two deviations above the mean; gaps more
			// than one below.
			for i, c := range counts {
				if c > m+2*sd {
					totalPeaks++
				}
				if c < m-sd {
					totalGaps++
				}
				combined[i] += c
			}
		}

		uniformity := 0.0
		if m := mean(combined); m > 0 {
			uniformity = stddev(combined) / m
		}

		var indicators []string
		if totalPeaks > a.PeakLimit {
			indicators = append(indicators, fmt.Sprintf(
				"Excessive histogram peaks across channels (%d)", totalPeaks))
		}
		if totalGaps > a.GapLimit {
			indicators = append(indicators, fmt.Sprintf(
				"Excessive histogram gaps across channels (%d)", totalGaps))
		}
		if uniformity > a.UniformityThreshold {
			indicators = append(indicators, fmt.Sprintf(
				"High histogram non-uniformity (%.2f)", uniformity))
		}
		if indicators == nil {
			indicators = []string{}
		}

		score := clamp(100-25*float64(len(indicators)), 0, 100)
		return analysis.Record{
			Analyzer:   analysis.KindHistogram,
			Score:      score,
			Confidence: 100 - score,
			Detected:   len(indicators) > 0,
			Indicators: indicators,
			Metrics: map[string]float64{
				"histogram_peaks":      float64(totalPeaks),
				"histogram_gaps":       float64(totalGaps),
				"histogram_uniformity": uniformity,
			},
		}
	})
}
