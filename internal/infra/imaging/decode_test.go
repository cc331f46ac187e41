package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, m image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, m))
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 10, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			m.SetRGBA(x, y, color.RGBA{200, 100, 50, 255})
		}
	}

	img, err := Decode(encodePNG(t, m))
	require.NoError(t, err)

	assert.Equal(t, "png", img.Format)
	assert.Equal(t, 10, img.Width)
	assert.Equal(t, 6, img.Height)
	assert.Len(t, img.Gray, 60)
	assert.Equal(t, uint8(200), img.R[0])
	assert.Equal(t, uint8(100), img.G[0])
	assert.Equal(t, uint8(50), img.B[0])
	assert.InDelta(t, 0.299*200+0.587*100+0.114*50, img.Gray[0], 1e-9)
}

func TestDecodeJPEG(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 16, 16))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, m, &jpeg.Options{Quality: 90}))

	img, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "jpeg", img.Format)
	assert.Equal(t, 16, img.Width)
}

func TestDecodeKeepsRawBytes(t *testing.T) {
	data := encodePNG(t, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	img, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, data, img.Raw)
}

func TestDecodeGarbageFails(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestDecodeEmptyFails(t *testing.T) {
	_, err := Decode(nil)
	assert.Error(t, err)
}

func TestLumaMatchesGrayPlane(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 3, 3))
	m.SetRGBA(1, 2, color.RGBA{10, 20, 30, 255})

	img, err := Decode(encodePNG(t, m))
	require.NoError(t, err)
	assert.Equal(t, img.Gray[2*3+1], img.Luma(1, 2))
}
