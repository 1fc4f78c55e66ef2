package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	img, err := Decode(pngBytes(t, 8, 4))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = Decode([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestDecodeBase64(t *testing.T) {
	raw := pngBytes(t, 3, 3)
	enc := base64.StdEncoding.EncodeToString(raw)

	img, err := DecodeBase64(enc)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())

	img, err = DecodeBase64("data:image/png;base64," + enc)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dy())

	_, err = DecodeBase64("!!!")
	assert.Error(t, err)
	_, err = DecodeBase64("  ")
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestEncodeJPEG(t *testing.T) {
	img, err := Decode(pngBytes(t, 16, 16))
	require.NoError(t, err)
	out, err := EncodeJPEG(img, 90)
	require.NoError(t, err)

	back, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), back.Bounds())
}
