package analyzers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistogramEvenTonalSpread(t *testing.T) {
	img := pngImage(t, gradientImage(256, 256))
	rec := NewHistogram().Analyze(context.Background(), img)

	assert.False(t, rec.Detected)
	assert.Equal(t, 100.0, rec.Score)
	assert.Equal(t, 0.0, rec.Metrics["histogram_peaks"])
}

func TestHistogramSingleToneFlagged(t *testing.T) {
	img := pngImage(t, flatImage(128, 128, 200))
	rec := NewHistogram().Analyze(context.Background(), img)

	assert.True(t, rec.Detected)
	assert.Less(t, rec.Score, 100.0)
	assert.Greater(t, rec.Metrics["histogram_uniformity"], 2.5)
}
