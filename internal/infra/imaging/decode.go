package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/fotoproof/fotoproof/internal/domain/analysis"
)

// maxPixels bounds decode cost: several analyzers are near-quadratic in
// resolution, so absurdly large images are rejected at the boundary instead
// of timing out mid-pipeline.
const maxPixels = 40_000_000

// Decode turns raw upload bytes into the shared read-only image every
// analyzer consumes. A failure here is a pipeline-level error: no partial
// aggregate is ever produced from undecodable bytes.
func Decode(data []byte) (*analysis.Image, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("decoding image: empty bounds %dx%d", w, h)
	}
	if w*h > maxPixels {
		return nil, fmt.Errorf("decoding image: %dx%d exceeds %d pixel limit", w, h, maxPixels)
	}

	img := &analysis.Image{
		Raw:    data,
		Format: format,
		Source: src,
		Width:  w,
		Height: h,
		Gray:   make([]float64, w*h),
		R:      make([]uint8, w*h),
		G:      make([]uint8, w*h),
		B:      make([]uint8, w*h),
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(bl>>8)
			img.R[i] = r8
			img.G[i] = g8
			img.B[i] = b8
			img.Gray[i] = 0.299*float64(r8) + 0.587*float64(g8) + 0.114*float64(b8)
			i++
		}
	}
	return img, nil
}
