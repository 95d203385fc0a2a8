package kernels

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-filters/images"
)

// BlurLayout is the pixel layout Blur is written for. All four channels are
// convolved the same way, the layout only names them.
const BlurLayout = images.AlphaFirst

// blurChannels holds the byte offsets of alpha, red, green and blue in BlurLayout.
var blurChannels = [images.BytesPerPixel]int{
	BlurLayout.Offset(images.Alpha),
	BlurLayout.Offset(images.Red),
	BlurLayout.Offset(images.Green),
	BlurLayout.Offset(images.Blue),
}

// Blur applies a separable Gaussian blur of the given radius from input into
// output. The kernel has 2*radius taps and sigma == radius.
//
// The horizontal pass reads input and writes output; the vertical pass then
// runs in place on output, so each vertical read sees the horizontal result
// and the already blurred rows above it. output is marked dirty on success.
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
func Blur(input, output images.Surface, radius int, opt Options) error {
	if err := validate(input, output, radius, opt); err != nil {
		return errors.Wrap(err, "blur")
	}

	switch opt.Precision {
	case Precision32:
		kernel, err := GenerateLinearKernel32(2*radius, float32(radius), opt.Formula)
		if err != nil {
			return errors.Wrap(err, "blur")
		}
		prepare(output)
		blur(input, output, kernel, radius, opt)
	default:
		kernel, err := GenerateLinearKernel(2*radius, float64(radius), opt.Formula)
		if err != nil {
			return errors.Wrap(err, "blur")
		}
		prepare(output)
		blur(input, output, kernel, radius, opt)
	}

	output.MarkDirty()
	return nil
}

// pixelGrid addresses the width*height pixels of a surface as one flat
// sequence. Pixel i lives in row i/width, so padding at the end of each row
// is skipped.
type pixelGrid struct {
	width, height, stride, total int
	packed                       bool
}

func newPixelGrid(s images.Surface) pixelGrid {
	w, h, stride := s.Width(), s.Height(), s.Stride()
	return pixelGrid{
		width:  w,
		height: h,
		stride: stride,
		total:  w * h,
		packed: stride == images.MinStride(w),
	}
}

// offset returns the byte offset of pixel i.
func (g pixelGrid) offset(i int) int {
	if g.packed {
		return i * images.BytesPerPixel
	}
	return (i/g.width)*g.stride + (i%g.width)*images.BytesPerPixel
}

// horizontal returns the pixel read for tap j around pixel i.
func (g pixelGrid) horizontal(i, j int, edge EdgePolicy) int {
	if edge == EdgeRow {
		x := i % g.width
		return i - x + images.ClampInt(x+j, 0, g.width)
	}
	return images.ClampInt(i+j, 0, g.total)
}

// vertical returns the pixel read for tap j above or below pixel i.
func (g pixelGrid) vertical(i, j int, edge EdgePolicy) int {
	col := i % g.width
	if edge == EdgeRow {
		y := i / g.width
		return images.ClampInt(y+j, 0, g.height)*g.width + col
	}
	return images.ClampInt(i+j*g.width, col, g.total-col)
}

func blur[W weight](input, output images.Surface, kernel []W, radius int, opt Options) {
	g := newPixelGrid(input)
	src, dst := input.Pix(), output.Pix()
	ch := blurChannels

	// Horizontal pass: input -> output.
	opt.run(g.total, func(start, end int) {
		for i := start; i < end; i++ {
			var a, r, gr, b W
			for j := -radius; j < radius; j++ {
				p := src[g.offset(g.horizontal(i, j, opt.Edge)):]
				w := kernel[radius+j]
				a += W(p[ch[0]]) * w
				r += W(p[ch[1]]) * w
				gr += W(p[ch[2]]) * w
				b += W(p[ch[3]]) * w
			}
			q := dst[g.offset(i):]
			q[ch[0]] = toByte(a)
			q[ch[1]] = toByte(r)
			q[ch[2]] = toByte(gr)
			q[ch[3]] = toByte(b)
		}
	})

	// Vertical pass: output -> output, after every horizontal write.
	opt.runColumns(g.width, g.height, func(y, x int) {
		i := y*g.width + x
		var a, r, gr, b W
		for j := -radius; j < radius; j++ {
			p := dst[g.offset(g.vertical(i, j, opt.Edge)):]
			w := kernel[radius+j]
			a += W(p[ch[0]]) * w
			r += W(p[ch[1]]) * w
			gr += W(p[ch[2]]) * w
			b += W(p[ch[3]]) * w
		}
		q := dst[g.offset(i):]
		q[ch[0]] = toByte(a)
		q[ch[1]] = toByte(r)
		q[ch[2]] = toByte(gr)
		q[ch[3]] = toByte(b)
	})
}
