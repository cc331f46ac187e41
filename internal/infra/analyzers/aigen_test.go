package analyzers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fotoproof/fotoproof/internal/domain/analysis"
)

func TestAIGenFlatImageAccumulatesIndicators(t *testing.T) {
	img := pngImage(t, flatImage(128, 128, 128))
	rec := NewAIGen().Analyze(context.Background(), img)

	assert.Equal(t, analysis.KindAI, rec.Analyzer)
	// featureless content trips at least texture uniformity and edge density
	assert.True(t, rec.Detected)
	assert.GreaterOrEqual(t, len(rec.Indicators), 2)
	assert.GreaterOrEqual(t, rec.Confidence, 40.0)
	assert.InDelta(t, 100-rec.Confidence, rec.Score, 1e-9)
}

func TestAIGenConfidenceScaling(t *testing.T) {
	img := pngImage(t, flatImage(128, 128, 128))
	rec := NewAIGen().Analyze(context.Background(), img)

	assert.InDelta(t, 20*float64(len(rec.Indicators)), rec.Confidence, 1e-9)
}

func TestAIGenPhotographicImageKeepsLowConfidence(t *testing.T) {
	a := NewAIGen()
	img := pngImage(t, claimPhotoImage(7))
	rec := a.Analyze(context.Background(), img)

	// a natural scene spreads spectral energy unevenly; its log-spectrum
	// std/mean ratio must clear the synthetic-regularity cut
	assert.Greater(t, rec.Metrics["frequency_ratio"], a.FreqRatioThreshold)
	for _, ind := range rec.Indicators {
		assert.NotContains(t, ind, "frequency spectrum")
	}
	assert.False(t, rec.Detected)
	assert.Less(t, rec.Confidence, 40.0)
}

func TestAIGenMetricsAlwaysReported(t *testing.T) {
	img := pngImage(t, grayNoiseImage(128, 128, 128, 40, 13))
	rec := NewAIGen().Analyze(context.Background(), img)

	for _, key := range []string{
		"frequency_ratio", "correlation_horizontal", "correlation_vertical",
		"texture_uniformity", "edge_density", "hue_peaks",
	} {
		assert.Contains(t, rec.Metrics, key)
	}
	assert.GreaterOrEqual(t, rec.Score, 0.0)
	assert.LessOrEqual(t, rec.Score, 100.0)
}

func TestAIGenDetectionNeedsTwoIndicators(t *testing.T) {
	img := pngImage(t, grayNoiseImage(128, 128, 128, 40, 17))
	rec := NewAIGen().Analyze(context.Background(), img)

	assert.Equal(t, len(rec.Indicators) >= 2, rec.Detected)
}
