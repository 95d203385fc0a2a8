package kernels

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-filters/images"
)

// CheckRadius rejects radii outside [1, MaxRadius].
func CheckRadius(radius int) error {
	if radius == 0 {
		return errors.Wrap(ErrInvalidRadius, "radius 0 gives the kernel a zero sigma")
	}
	if radius < 0 || radius > MaxRadius {
		return errors.Wrapf(ErrInvalidRadius, "radius %d outside [1, %d]", radius, MaxRadius)
	}
	return nil
}

// validate checks everything a filter needs before the output is touched.
func validate(input, output images.Surface, radius int, opt Options) error {
	if err := CheckRadius(radius); err != nil {
		return err
	}
	if err := opt.Validate(); err != nil {
		return err
	}
	if err := images.ValidateSurface(input); err != nil {
		return errors.Wrap(err, "input")
	}
	if err := images.ValidateSurface(output); err != nil {
		return errors.Wrap(err, "output")
	}
	if !images.SameGeometry(input, output) {
		return errors.Wrapf(ErrInvalidGeometry, "output %dx%d/%d does not match input %dx%d/%d",
			output.Width(), output.Height(), output.Stride(),
			input.Width(), input.Height(), input.Stride())
	}
	if images.Overlaps(input.Pix(), output.Pix()) {
		return errors.Wrap(ErrInvalidGeometry, "output aliases input")
	}
	return nil
}

// prepare flushes pending drawing on the output before its bytes are written.
func prepare(output images.Surface) {
	if f, ok := output.(images.Flusher); ok {
		f.Flush()
	}
}

type weight interface {
	~float32 | ~float64
}

// toByte rounds an accumulated channel value to the nearest byte.
func toByte[W weight](v W) uint8 {
	return images.ClampUint8(float64(v))
}
