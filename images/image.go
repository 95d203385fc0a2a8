package images

import (
	"bytes"
	"image"
	_ "image/jpeg" // register JPEG decoding
	"image/png"
	"io"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp" // register BMP decoding
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoding
	_ "golang.org/x/image/webp" // register WebP decoding
)

// ImageFormat represents supported image formats
type ImageFormat string

// ImageFormat constants
const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatWebP is the WebP image format.
	FormatWebP ImageFormat = "webp"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
	// FormatBMP is the BMP image format.
	FormatBMP ImageFormat = "bmp"
	// FormatTIFF is the TIFF image format.
	FormatTIFF ImageFormat = "tiff"
)

// Image represents an encoded image with a format, data, width, and height.
type Image struct {
	// The format of the image.
	Format ImageFormat `json:"format" yaml:"format"`
	// The data of the image.
	Data []byte `json:"data" yaml:"data"`
	// The width of the image.
	Width int `json:"width" yaml:"width"`
	// The height of the image.
	Height int `json:"height" yaml:"height"`
}

// Decode decodes encoded image bytes in any registered format.
//
// Arguments:
// - data: The encoded image.
//
// Returns:
// - The decoded image together with its format and dimensions.
// - error if the data is empty or cannot be decoded.
//
// @example
// img, err := Decode(pngBytes)
func Decode(data []byte) (image.Image, *Image, error) {
	if len(data) == 0 {
		return nil, nil, errors.New("image data is empty")
	}
	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, errors.Wrap(err, "image decoding failed")
	}
	b := decoded.Bounds()
	return decoded, &Image{
		Format: ImageFormat(format),
		Data:   data,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return errors.Wrap(png.Encode(w, img), "png encoding failed")
}

// FromImage converts src into a Buffer with the given layout. The pixels are
// stored premultiplied, matching image.RGBA.
//
// Arguments:
// - src: The image to convert.
// - layout: The channel order of the result.
// - stride: The row stride in bytes; 0 selects MinStride(width).
//
// Returns:
// - The buffer.
// - error if the image is empty or the stride is too small.
func FromImage(src image.Image, layout Layout, stride int) (*Buffer, error) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if stride == 0 {
		stride = MinStride(w)
	}
	buf, err := NewBuffer(w, h, stride, layout)
	if err != nil {
		return nil, err
	}

	rgba, ok := src.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Rect, src, bounds.Min, draw.Src)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := rgba.RGBAAt(rgba.Rect.Min.X+x, rgba.Rect.Min.Y+y)
			buf.SetPixel(x, y, [4]uint8{c.A, c.R, c.G, c.B})
		}
	}
	return buf, nil
}

// ToRGBA converts a buffer back to a premultiplied *image.RGBA using the
// buffer's Layout.
func ToRGBA(b *Buffer) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, b.Width(), b.Height()))
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			p := b.Pixel(x, y)
			off := dst.PixOffset(x, y)
			dst.Pix[off+0] = p[1]
			dst.Pix[off+1] = p[2]
			dst.Pix[off+2] = p[3]
			dst.Pix[off+3] = p[0]
		}
	}
	return dst
}
