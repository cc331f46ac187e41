package analyzers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoiseNaturalSensorResidue(t *testing.T) {
	img := pngImage(t, grayNoiseImage(128, 128, 128, 8, 5))
	rec := NewNoise().Analyze(context.Background(), img)

	assert.False(t, rec.Detected)
	assert.Equal(t, 100.0, rec.Score)
	assert.Greater(t, rec.Metrics["noise_std"], 2.0)
}

func TestNoiseFlatImageSuspicious(t *testing.T) {
	img := pngImage(t, flatImage(128, 128, 128))
	rec := NewNoise().Analyze(context.Background(), img)

	assert.True(t, rec.Detected)
	assert.Less(t, rec.Score, 50.0)
	assert.Contains(t, rec.Indicators[0], "below natural sensor floor")
}

func TestNoiseTinyImageNeutral(t *testing.T) {
	img := pngImage(t, flatImage(2, 2, 128))
	rec := NewNoise().Analyze(context.Background(), img)

	assert.Equal(t, 50.0, rec.Score)
	assert.Contains(t, rec.Indicators[0], "too small")
}
