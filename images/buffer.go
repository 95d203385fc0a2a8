package images

import (
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidGeometry is returned when a buffer's width, height, stride or data
	// length are inconsistent, or when two buffers that must match do not.
	ErrInvalidGeometry = errors.New("invalid buffer geometry")
	// ErrAllocation is returned when a buffer cannot be allocated.
	ErrAllocation = errors.New("buffer allocation failed")
	// ErrUnknownLayout is returned by ParseLayout for an unrecognised name.
	ErrUnknownLayout = errors.New("unknown pixel layout")
)

// Surface is a pixel buffer owned by the caller: a width and height in pixels,
// a row stride in bytes and a contiguous byte slice of stride*height bytes.
type Surface interface {
	Width() int
	Height() int
	Stride() int
	Pix() []byte
	// MarkDirty tells the owner that Pix was modified so cached renderings of
	// the surface can be invalidated.
	MarkDirty()
}

// Flusher is implemented by surfaces that must complete pending drawing
// before their bytes are written directly.
type Flusher interface {
	Flush()
}

// Buffer is the owned in-memory Surface implementation.
type Buffer struct {
	width  int
	height int
	stride int
	pix    []byte

	// Layout records the channel order the bytes were written in. Filters
	// never consult it; it is used when converting to and from image.Image.
	Layout Layout
	// OnDirty, when set, is invoked by MarkDirty.
	OnDirty func()

	generation atomic.Uint64
}

// MinStride returns the smallest valid row stride for a width in pixels.
func MinStride(width int) int {
	return width * BytesPerPixel
}

// NewBuffer allocates a zeroed buffer.
//
// Arguments:
// - width: The width in pixels (> 0).
// - height: The height in pixels (> 0).
// - stride: The bytes per row (>= width*4).
// - layout: The channel order of the pixels.
//
// Returns:
// - The buffer.
// - ErrInvalidGeometry if the dimensions are not usable.
//
// @example
// buf, err := NewBuffer(640, 480, MinStride(640), AlphaFirst)
func NewBuffer(width, height, stride int, layout Layout) (*Buffer, error) {
	size, err := bufferSize(width, height, stride)
	if err != nil {
		return nil, err
	}
	if !layout.Valid() {
		return nil, errors.Wrapf(ErrInvalidGeometry, "unknown layout %d", int(layout))
	}
	return &Buffer{
		width:  width,
		height: height,
		stride: stride,
		pix:    make([]byte, size),
		Layout: layout,
	}, nil
}

// WrapBuffer builds a Buffer around existing bytes without copying them.
func WrapBuffer(width, height, stride int, layout Layout, pix []byte) (*Buffer, error) {
	size, err := bufferSize(width, height, stride)
	if err != nil {
		return nil, err
	}
	if len(pix) != size {
		return nil, errors.Wrapf(ErrInvalidGeometry, "data length %d, want %d", len(pix), size)
	}
	return &Buffer{width: width, height: height, stride: stride, pix: pix, Layout: layout}, nil
}

// bufferSize checks the geometry and returns stride*height.
func bufferSize(width, height, stride int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, errors.Wrapf(ErrInvalidGeometry, "dimensions %dx%d", width, height)
	}
	if width > maxInt/BytesPerPixel || stride < MinStride(width) {
		return 0, errors.Wrapf(ErrInvalidGeometry, "stride %d too small for width %d", stride, width)
	}
	if stride > maxInt/height {
		return 0, errors.Wrapf(ErrAllocation, "%d rows of %d bytes overflow", height, stride)
	}
	return stride * height, nil
}

const maxInt = int(^uint(0) >> 1)

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }
func (b *Buffer) Stride() int { return b.stride }
func (b *Buffer) Pix() []byte { return b.pix }

// MarkDirty bumps the buffer generation and notifies OnDirty.
func (b *Buffer) MarkDirty() {
	b.generation.Add(1)
	if b.OnDirty != nil {
		b.OnDirty()
	}
}

// Generation returns how many times the buffer was marked dirty.
func (b *Buffer) Generation() uint64 {
	return b.generation.Load()
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (b *Buffer) PixOffset(x, y int) int {
	return y*b.stride + x*BytesPerPixel
}

// Pixel returns the channel values of the pixel at (x, y) in Alpha, Red,
// Green, Blue order regardless of the buffer layout.
func (b *Buffer) Pixel(x, y int) [4]uint8 {
	off := b.PixOffset(x, y)
	p := b.pix[off : off+BytesPerPixel : off+BytesPerPixel]
	return [4]uint8{
		p[b.Layout.Offset(Alpha)],
		p[b.Layout.Offset(Red)],
		p[b.Layout.Offset(Green)],
		p[b.Layout.Offset(Blue)],
	}
}

// SetPixel writes channel values given in Alpha, Red, Green, Blue order.
func (b *Buffer) SetPixel(x, y int, argb [4]uint8) {
	off := b.PixOffset(x, y)
	p := b.pix[off : off+BytesPerPixel : off+BytesPerPixel]
	p[b.Layout.Offset(Alpha)] = argb[0]
	p[b.Layout.Offset(Red)] = argb[1]
	p[b.Layout.Offset(Green)] = argb[2]
	p[b.Layout.Offset(Blue)] = argb[3]
}

// Fill sets every pixel to the same value.
func (b *Buffer) Fill(argb [4]uint8) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.SetPixel(x, y, argb)
		}
	}
}

// ValidateSurface checks that a surface has positive dimensions, a stride of
// at least width*4 and exactly stride*height bytes.
func ValidateSurface(s Surface) error {
	if s == nil {
		return errors.Wrap(ErrInvalidGeometry, "surface is nil")
	}
	if b, ok := s.(*Buffer); ok && b == nil {
		return errors.Wrap(ErrInvalidGeometry, "buffer is nil")
	}
	size, err := bufferSize(s.Width(), s.Height(), s.Stride())
	if err != nil {
		return err
	}
	if n := len(s.Pix()); n != size {
		return errors.Wrapf(ErrInvalidGeometry, "data length %d, want %d", n, size)
	}
	return nil
}

// SameGeometry reports whether a and b have identical width, height and stride.
func SameGeometry(a, b Surface) bool {
	return a.Width() == b.Width() && a.Height() == b.Height() && a.Stride() == b.Stride()
}

// Overlaps reports whether the backing memory of a and b intersects.
func Overlaps(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aStart := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	bStart := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return aStart < bStart+uintptr(len(b)) && bStart < aStart+uintptr(len(a))
}
