package analyzers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompressionCleanHighQualityJPEG(t *testing.T) {
	img := jpegImage(t, grayNoiseImage(256, 256, 128, 6, 11), 90)
	rec := NewCompression().Analyze(context.Background(), img)

	assert.False(t, rec.Detected)
	assert.Equal(t, 100.0, rec.Score)
	assert.Greater(t, rec.Metrics["estimated_quality"], 70.0)
	assert.Less(t, rec.Metrics["compression_ratio"], 2.0)
}

func TestCompressionLowQualityFlagged(t *testing.T) {
	img := jpegImage(t, grayNoiseImage(256, 256, 128, 40, 21), 20)
	rec := NewCompression().Analyze(context.Background(), img)

	assert.True(t, rec.Detected)
	assert.Less(t, rec.Metrics["estimated_quality"], 70.0)
	assert.Less(t, rec.Score, 100.0)
	assert.NotEmpty(t, rec.Indicators)
}

func TestCompressionQualityEstimateFromDQT(t *testing.T) {
	highQ := jpegImage(t, gradientImage(64, 64), 95)
	lowQ := jpegImage(t, gradientImage(64, 64), 30)

	q95, ok95 := estimateJPEGQuality(highQ.Raw)
	q30, ok30 := estimateJPEGQuality(lowQ.Raw)

	assert.True(t, ok95)
	assert.True(t, ok30)
	assert.Greater(t, q95, q30)
}

func TestCompressionQualityEstimateNonJPEG(t *testing.T) {
	img := pngImage(t, gradientImage(32, 32))
	_, ok := estimateJPEGQuality(img.Raw)
	assert.False(t, ok)
}
