package images

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

func getTestImage(w, h int) image.Image {
	// A solid red image.
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}
	return img
}

func TestThumbnail(t *testing.T) {
	testCases := []struct {
		name           string
		w, h           int
		maxW, maxH     int
		expectedWidth  int
		expectedHeight int
	}{
		{name: "landscape_downscale", w: 200, h: 100, maxW: 50, maxH: 50, expectedWidth: 50, expectedHeight: 25},
		{name: "portrait_downscale", w: 100, h: 400, maxW: 60, maxH: 100, expectedWidth: 25, expectedHeight: 100},
		{name: "already_fits", w: 40, h: 30, maxW: 50, maxH: 50, expectedWidth: 40, expectedHeight: 30},
		{name: "width_only", w: 200, h: 100, maxW: 50, maxH: 0, expectedWidth: 50, expectedHeight: 25},
		{name: "no_limit", w: 300, h: 300, maxW: 0, maxH: 0, expectedWidth: 300, expectedHeight: 300},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := Thumbnail(getTestImage(tc.w, tc.h), tc.maxW, tc.maxH)
			assert.Equal(t, tc.expectedWidth, out.Bounds().Dx())
			assert.Equal(t, tc.expectedHeight, out.Bounds().Dy())
		})
	}
}

func TestDecodeToFit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, getTestImage(100, 100), nil))

	img, info, err := DecodeToFit(buf.Bytes(), 50, 50)
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, info.Format)
	assert.Equal(t, 100, info.Width)
	assert.Equal(t, image.Rect(0, 0, 50, 50), img.Bounds())

	buf.Reset()
	require.NoError(t, png.Encode(&buf, getTestImage(20, 10)))
	img, info, err = DecodeToFit(buf.Bytes(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, info.Format)
	assert.Equal(t, image.Rect(0, 0, 20, 10), img.Bounds())

	_, _, err = DecodeToFit(nil, 10, 10)
	assert.Error(t, err)
	_, _, err = DecodeToFit([]byte("not an image"), 10, 10)
	assert.Error(t, err)
	_, _, err = DecodeToFit(buf.Bytes(), -1, 10)
	assert.Error(t, err)
}
