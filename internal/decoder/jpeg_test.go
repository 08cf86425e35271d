package decoder

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rootuserdj/DJ-Remote-Desktop/internal/encoder"
)

func TestDecodeEncodedFrame(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 40, A: 255})
		}
	}

	data, err := encoder.NewJPEGEncoder(80).Encode(src)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := NewJPEGDecoder().Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestDecodeGarbage(t *testing.T) {
	_, err := NewJPEGDecoder().Decode([]byte("not a jpeg"))
	assert.Error(t, err)
}
