package images

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Thumbnail downscales img so it fits in maxWidth x maxHeight, preserving the
// aspect ratio. A bound <= 0 leaves that dimension unlimited. Images that
// already fit are returned as is.
//
// Arguments:
//   - img: The image to downscale.
//   - maxWidth: The maximum width of the result.
//   - maxHeight: The maximum height of the result.
//
// Returns:
//   - image.Image: The downscaled image, or img itself.
func Thumbnail(img image.Image, maxWidth, maxHeight int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 {
		maxWidth = b.Dx()
	}
	if maxHeight <= 0 {
		maxHeight = b.Dy()
	}
	if b.Dx() <= maxWidth && b.Dy() <= maxHeight {
		return img
	}
	return resize.Thumbnail(uint(maxWidth), uint(maxHeight), img, resize.Lanczos3)
}

// DecodeToFit decodes encoded image bytes of any registered format and
// downscales the result to fit the given bounds.
//
// Arguments:
//   - data: The encoded image.
//   - maxWidth: The maximum width, 0 for no limit.
//   - maxHeight: The maximum height, 0 for no limit.
//
// Returns:
//   - image.Image: The decoded, possibly downscaled image.
//   - *Image: Format and original dimensions of the encoded image.
//   - error: An error if the image fails to decode.
func DecodeToFit(data []byte, maxWidth, maxHeight int) (image.Image, *Image, error) {
	if maxWidth < 0 || maxHeight < 0 {
		return nil, nil, errors.Errorf("invalid bounds: width=%d, height=%d", maxWidth, maxHeight)
	}
	img, info, err := Decode(data)
	if err != nil {
		return nil, nil, err
	}
	return Thumbnail(img, maxWidth, maxHeight), info, nil
}
