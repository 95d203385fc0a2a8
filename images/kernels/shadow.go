package kernels

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-filters/images"
)

// ShadowLayout is the pixel layout Shadow is written for.
const ShadowLayout = images.AlphaLast

// alphaOffset is the byte offset of alpha inside each 4-byte group in ShadowLayout.
const alphaOffset = 3

// Shadow turns input into a drop-shadow silhouette in output: the alpha
// channel is blurred with the same separable kernel as Blur and the three
// color bytes of every pixel are set to 0.
//
// With EdgeFlat the buffer is walked as raw bytes: every byte at a flat offset
// i with i%4 == 3 below stride*height is treated as alpha, row padding
// included, and reads are clamped into the whole buffer (horizontal) or the
// band [i%stride, len-i%stride) (vertical). A clamped read may therefore land
// on a color byte: horizontally the first read of the buffer hits byte 0 of
// input, vertically the right half of the last row reads the zeroed color bytes
// of output.
//
// Color bytes are cleared during the horizontal pass, not after the vertical
// pass. On a zeroed output the two orders give identical bytes. On an output
// holding stale data they differ: clearing last would let the vertical fold in
// the last row read the stale color bytes, while Shadow always reads zeros, so
// the result depends only on input. With EdgeRow only the
// width*height pixels are touched and reads stay on alpha bytes of the same
// row or column.
//
// Arguments:
//   - input: Source surface, not modified.
//   - output: Destination with the same width, height and stride. Must not
//     share memory with input.
//   - radius: Blur radius in [1, MaxRadius].
//   - opt: Kernel, edge and execution options.
//
// Returns:
//   - ErrInvalidRadius, ErrInvalidGeometry, ErrInvalidOptions or ErrAllocation
//     before output is written.
func Shadow(input, output images.Surface, radius int, opt Options) error {
	if err := validate(input, output, radius, opt); err != nil {
		return errors.Wrap(err, "shadow")
	}

	switch opt.Precision {
	case Precision32:
		kernel, err := GenerateLinearKernel32(2*radius, float32(radius), opt.Formula)
		if err != nil {
			return errors.Wrap(err, "shadow")
		}
		prepare(output)
		shadow(input, output, kernel, radius, opt)
	default:
		kernel, err := GenerateLinearKernel(2*radius, float64(radius), opt.Formula)
		if err != nil {
			return errors.Wrap(err, "shadow")
		}
		prepare(output)
		shadow(input, output, kernel, radius, opt)
	}

	output.MarkDirty()
	return nil
}

func shadow[W weight](input, output images.Surface, kernel []W, radius int, opt Options) {
	if opt.Edge == EdgeRow {
		shadowRows(input, output, kernel, radius, opt)
		return
	}

	src, dst := input.Pix(), output.Pix()
	stride, height := input.Stride(), input.Height()
	total := stride * height
	// Alpha bytes sit at 3, 7, 11, ... and total >= 4.
	alphas := total / images.BytesPerPixel

	opt.run(alphas, func(start, end int) {
		for k := start; k < end; k++ {
			i := k*images.BytesPerPixel + alphaOffset
			var sum W
			for o := -radius; o < radius; o++ {
				sum += W(src[images.ClampInt(i+o*images.BytesPerPixel, 0, total)]) * kernel[radius+o]
			}
			dst[i] = toByte(sum)
			dst[i-3], dst[i-2], dst[i-1] = 0, 0, 0
		}
	})

	opt.runColumns(stride, height, func(y, col int) {
		i := y*stride + col
		if i%images.BytesPerPixel != alphaOffset {
			return
		}
		var sum W
		for o := -radius; o < radius; o++ {
			sum += W(dst[images.ClampInt(i+o*stride, col, total-col)]) * kernel[radius+o]
		}
		dst[i] = toByte(sum)
	})
}

// shadowRows is the EdgeRow variant: pixel (x, y) has its alpha at
// y*stride + x*4 + 3 and reads are clamped to the image edges.
func shadowRows[W weight](input, output images.Surface, kernel []W, radius int, opt Options) {
	src, dst := input.Pix(), output.Pix()
	width, height, stride := input.Width(), input.Height(), input.Stride()
	at := func(x, y int) int {
		return y*stride + x*images.BytesPerPixel + alphaOffset
	}

	opt.run(width*height, func(start, end int) {
		for p := start; p < end; p++ {
			x, y := p%width, p/width
			var sum W
			for o := -radius; o < radius; o++ {
				sum += W(src[at(images.ClampInt(x+o, 0, width), y)]) * kernel[radius+o]
			}
			i := at(x, y)
			dst[i] = toByte(sum)
			dst[i-3], dst[i-2], dst[i-1] = 0, 0, 0
		}
	})

	opt.runColumns(width, height, func(y, x int) {
		var sum W
		for o := -radius; o < radius; o++ {
			sum += W(dst[at(x, images.ClampInt(y+o, 0, height))]) * kernel[radius+o]
		}
		dst[at(x, y)] = toByte(sum)
	})
}
