package analyzers

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fotoproof/fotoproof/internal/domain/analysis"
	"github.com/fotoproof/fotoproof/internal/infra/imaging"
)

// deterministic LCG so noise images are identical across runs
func newLCG(seed uint32) func() uint32 {
	state := seed
	return func() uint32 {
		state = state*1664525 + 1013904223
		return state
	}
}

func flatImage(w, h int, v uint8) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return m
}

// grayNoiseImage fills r=g=b with base +/- amp
func grayNoiseImage(w, h int, base, amp int, seed uint32) *image.RGBA {
	rnd := newLCG(seed)
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := base + int(rnd()%uint32(2*amp+1)) - amp
			if n < 0 {
				n = 0
			}
			if n > 255 {
				n = 255
			}
			v := uint8(n)
			m.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return m
}

// rgbNoiseImage fills each channel independently with full-range noise
func rgbNoiseImage(w, h int, seed uint32) *image.RGBA {
	rnd := newLCG(seed)
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetRGBA(x, y, color.RGBA{uint8(rnd()), uint8(rnd()), uint8(rnd()), 255})
		}
	}
	return m
}

// tri is a triangle wave over t with period 2p and range [0, p].
func tri(t, p int) int {
	m := 2 * p
	r := (t%m + m) % m
	if r > p {
		r = m - r
	}
	return r
}

func noisyChannel(base int, rnd func() uint32, amp int) uint8 {
	v := base + int(rnd()%uint32(2*amp+1)) - amp
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// claimPhotoImage synthesizes a photo-like claim scene: multi-scale
// luminance waves over a patchwork of muted palettes, sparse dark seams and
// independent per-channel sensor noise. Statistically it behaves like a
// camera shot of a cluttered interior, so none of the synthetic-content
// checks should fire on it.
func claimPhotoImage(seed uint32) *image.RGBA {
	const (
		size  = 256
		amp   = 6
		seam  = 28
		patch = 42
	)
	palettes := [8][3]int{
		{50, 70, 100}, {50, 100, 60}, {55, 95, 100}, {75, 50, 100},
		{95, 100, 50}, {60, 85, 100}, {70, 50, 100}, {85, 100, 65},
	}
	rnd := newLCG(seed)
	m := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			lum := 118 + tri(x+2*y, 160)/2 + tri(3*x-y+400, 72)/3
			if x%seam == 0 || y%seam == 0 {
				lum -= 55
			}
			pal := palettes[(x/patch+(y/patch)*7)%8]
			m.SetRGBA(x, y, color.RGBA{
				noisyChannel(lum*pal[0]/100, rnd, amp),
				noisyChannel(lum*pal[1]/100, rnd, amp),
				noisyChannel(lum*pal[2]/100, rnd, amp),
				255,
			})
		}
	}
	return m
}

// gradientImage covers every intensity value evenly
func gradientImage(w, h int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x + y) % 256)
			m.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return m
}

func pngImage(t *testing.T, m image.Image) *analysis.Image {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, m))
	img, err := imaging.Decode(buf.Bytes())
	require.NoError(t, err)
	return img
}

func jpegImage(t *testing.T, m image.Image, quality int) *analysis.Image {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, m, &jpeg.Options{Quality: quality}))
	img, err := imaging.Decode(buf.Bytes())
	require.NoError(t, err)
	return img
}

// exifEntry describes one IFD0 entry for the test EXIF builder.
type exifEntry struct {
	tag  uint16
	typ  uint16
	cnt  uint32
	data []byte
}

func asciiEntry(tag uint16, s string) exifEntry {
	data := append([]byte(s), 0)
	return exifEntry{tag: tag, typ: 2, cnt: uint32(len(data)), data: data}
}

func shortEntry(tag uint16, v uint16) exifEntry {
	data := make([]byte, 2)
	binary.LittleEndian.PutUint16(data, v)
	return exifEntry{tag: tag, typ: 3, cnt: 1, data: data}
}

func rationalEntry(tag uint16, num, den uint32) exifEntry {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint32(data[:4], num)
	binary.LittleEndian.PutUint32(data[4:], den)
	return exifEntry{tag: tag, typ: 5, cnt: 1, data: data}
}

// buildExifJPEG wraps a little-endian TIFF IFD0 into a minimal JPEG shell.
// The result is not a decodable image, only a metadata container.
func buildExifJPEG(entries []exifEntry) []byte {
	n := len(entries)
	dataOff := 8 + 2 + n*12 + 4

	tiff := []byte{'I', 'I', 42, 0, 8, 0, 0, 0}
	tiff = append(tiff, byte(n), byte(n>>8))

	var dataArea []byte
	for _, e := range entries {
		b := make([]byte, 12)
		binary.LittleEndian.PutUint16(b[0:2], e.tag)
		binary.LittleEndian.PutUint16(b[2:4], e.typ)
		binary.LittleEndian.PutUint32(b[4:8], e.cnt)
		if len(e.data) <= 4 && e.typ != 5 {
			copy(b[8:12], e.data)
		} else {
			binary.LittleEndian.PutUint32(b[8:12], uint32(dataOff+len(dataArea)))
			dataArea = append(dataArea, e.data...)
		}
		tiff = append(tiff, b...)
	}
	tiff = append(tiff, 0, 0, 0, 0) // no next IFD
	tiff = append(tiff, dataArea...)

	payload := append([]byte("Exif\x00\x00"), tiff...)
	segLen := len(payload) + 2
	out := []byte{0xFF, 0xD8, 0xFF, 0xE1, byte(segLen >> 8), byte(segLen)}
	out = append(out, payload...)
	out = append(out, 0xFF, 0xD9)
	return out
}
