package analyzers

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

// clonePatch copies a square region of the image onto another location,
// both aligned so the duplication survives block description.
func clonePatch(m *image.RGBA, srcX, srcY, dstX, dstY, size int) {
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			m.SetRGBA(dstX+x, dstY+y, m.RGBAAt(srcX+x, srcY+y))
		}
	}
}

func TestCopyMoveDetectsDuplicatedRegion(t *testing.T) {
	m := grayNoiseImage(256, 256, 128, 60, 42)
	clonePatch(m, 16, 16, 144, 144, 64)
	img := pngImage(t, m)

	rec := NewCopyMove().Analyze(context.Background(), img)

	assert.True(t, rec.Detected)
	assert.Less(t, rec.Score, 50.0)
	assert.GreaterOrEqual(t, rec.Metrics["suspicious_matches"], 40.0)
	assert.NotEmpty(t, rec.Indicators)
}

func TestCopyMoveCleanImage(t *testing.T) {
	img := pngImage(t, grayNoiseImage(256, 256, 128, 60, 99))
	rec := NewCopyMove().Analyze(context.Background(), img)

	assert.False(t, rec.Detected)
	assert.GreaterOrEqual(t, rec.Score, 80.0)
}

func TestCopyMoveNearbyDuplicateIgnored(t *testing.T) {
	// a displacement below MinShift is repeating local texture, not cloning
	m := grayNoiseImage(256, 256, 128, 60, 7)
	clonePatch(m, 16, 16, 32, 16, 16)
	img := pngImage(t, m)

	rec := NewCopyMove().Analyze(context.Background(), img)
	assert.False(t, rec.Detected)
}

func TestCopyMoveTooSmallImageNeutral(t *testing.T) {
	img := pngImage(t, grayNoiseImage(16, 16, 128, 60, 1))
	rec := NewCopyMove().Analyze(context.Background(), img)

	assert.Equal(t, 50.0, rec.Score)
	assert.False(t, rec.Detected)
	assert.Contains(t, rec.Indicators[0], "too small")
}

func TestCopyMoveFlatImageNeutral(t *testing.T) {
	img := pngImage(t, flatImage(256, 256, 128))
	rec := NewCopyMove().Analyze(context.Background(), img)

	assert.Equal(t, 50.0, rec.Score)
	assert.Contains(t, rec.Indicators[0], "too few detectable features")
}
