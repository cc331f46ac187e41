package analysis

import "image"

// Image is the decoded form every analyzer works on. The pipeline decodes
// once; analyzers only read from it, so the fan-out needs no locking.
type Image struct {
	Raw    []byte
	Format string
	Source image.Image

	Width  int
	Height int

	// Gray is the row-major luminance plane in [0,255].
	Gray []float64

	// Per-channel planes, row-major.
	R, G, B []uint8
}

// Luma returns the luminance at (x, y).
func (im *Image) Luma(x, y int) float64 {
	return im.Gray[y*im.Width+x]
}

// Pixels returns the pixel count.
func (im *Image) Pixels() int {
	return im.Width * im.Height
}
