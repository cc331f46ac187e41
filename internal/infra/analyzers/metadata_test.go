package analyzers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fotoproof/fotoproof/internal/domain/analysis"
)

func cameraEntries() []exifEntry {
	return []exifEntry{
		asciiEntry(tagMake, "Canon"),
		asciiEntry(tagModel, "Canon EOS R6"),
		asciiEntry(tagDateTime, "2025:06:01 12:00:00"),
		asciiEntry(tagDateTimeOriginal, "2025:06:01 12:00:00"),
		rationalEntry(tagExposureTime, 1, 250),
		rationalEntry(tagFNumber, 28, 10),
		shortEntry(tagISOSpeedRatings, 400),
	}
}

func TestMetadataEditingSoftwareDetected(t *testing.T) {
	raw := buildExifJPEG([]exifEntry{
		asciiEntry(tagSoftware, "Adobe Photoshop 2024"),
	})
	rec := NewMetadata().Analyze(context.Background(), &analysis.Image{Raw: raw})

	assert.Equal(t, analysis.KindMetadata, rec.Analyzer)
	assert.True(t, rec.Detected)
	require.NotEmpty(t, rec.Indicators)
	assert.Contains(t, rec.Indicators[0], "photoshop")
	assert.LessOrEqual(t, rec.Score, 80.0)
	assert.Equal(t, 1.0, rec.Metrics["exif_present"])
}

func TestMetadataCleanCameraExif(t *testing.T) {
	raw := buildExifJPEG(cameraEntries())
	rec := NewMetadata().Analyze(context.Background(), &analysis.Image{Raw: raw})

	assert.False(t, rec.Detected)
	assert.Empty(t, rec.Indicators)
	assert.Equal(t, 100.0, rec.Score)
}

func TestMetadataTimestampMismatch(t *testing.T) {
	entries := cameraEntries()
	entries[2] = asciiEntry(tagDateTime, "2025:06:02 09:30:00") // re-saved later
	raw := buildExifJPEG(entries)
	rec := NewMetadata().Analyze(context.Background(), &analysis.Image{Raw: raw})

	assert.False(t, rec.Detected, "mismatch alone is not an editing-tool detection")
	require.Len(t, rec.Indicators, 1)
	assert.Contains(t, rec.Indicators[0], "Timestamp mismatch")
	assert.Equal(t, 80.0, rec.Score)
}

func TestMetadataMissingCameraTags(t *testing.T) {
	// EXIF present but only Make survives: five expected tags missing
	raw := buildExifJPEG([]exifEntry{asciiEntry(tagMake, "Canon")})
	rec := NewMetadata().Analyze(context.Background(), &analysis.Image{Raw: raw})

	require.Len(t, rec.Indicators, 1)
	assert.Contains(t, rec.Indicators[0], "Expected camera tags missing")
}

func TestMetadataNoExifIsNotSuspicious(t *testing.T) {
	img := jpegImage(t, flatImage(32, 32, 100), 90)
	rec := NewMetadata().Analyze(context.Background(), img)

	assert.False(t, rec.Detected)
	assert.Empty(t, rec.Indicators)
	assert.Equal(t, 100.0, rec.Score)
	assert.Equal(t, 0.0, rec.Metrics["exif_present"])
}

func TestMetadataPNGTextChunkSignature(t *testing.T) {
	// hand-built PNG shell with an iTXt generator signature
	raw := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	text := []byte("Software\x00Stable Diffusion web UI")
	raw = append(raw, 0, 0, 0, byte(len(text)))
	raw = append(raw, []byte("iTXt")...)
	raw = append(raw, text...)
	raw = append(raw, 0, 0, 0, 0) // crc, unchecked

	rec := NewMetadata().Analyze(context.Background(), &analysis.Image{Raw: raw})
	assert.True(t, rec.Detected)
	require.NotEmpty(t, rec.Indicators)
	assert.Contains(t, rec.Indicators[0], "stable diffusion")
}
