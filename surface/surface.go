// Package surface exposes the two filters as allocate-and-run entry points:
// the caller hands over an input surface and a radius and receives a new
// buffer of the same geometry holding the result.
package surface

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-filters/images"
	"github.com/nvr-ai/go-filters/images/kernels"
)

// ErrUnknownFilter is returned for a filter name or value that is not known.
var ErrUnknownFilter = errors.New("unknown filter")

// Filter selects one of the filters.
type Filter int

const (
	// FilterBlur blurs all four channels.
	FilterBlur Filter = iota
	// FilterShadow blurs alpha and clears color.
	FilterShadow
)

func (f Filter) String() string {
	switch f {
	case FilterBlur:
		return "blur"
	case FilterShadow:
		return "shadow"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Filter) MarshalText() ([]byte, error) {
	if f != FilterBlur && f != FilterShadow {
		return nil, errors.Wrapf(ErrUnknownFilter, "filter %d", int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Filter) UnmarshalText(text []byte) error {
	parsed, err := ParseFilter(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Layout returns the pixel layout the filter is written for.
func (f Filter) Layout() images.Layout {
	if f == FilterShadow {
		return kernels.ShadowLayout
	}
	return kernels.BlurLayout
}

// ParseFilter converts "blur" or "shadow" into a Filter.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blur", "blurred":
		return FilterBlur, nil
	case "shadow":
		return FilterShadow, nil
	default:
		return 0, errors.Wrapf(ErrUnknownFilter, "%q", s)
	}
}

type settings struct {
	allocator images.Allocator
	kernel    kernels.Options
}

// Option configures CreateBlurred, CreateShadow and Apply.
type Option func(*settings)

// WithAllocator sets the allocator for the output buffer. The default is
// images.HeapAllocator{}.
func WithAllocator(a images.Allocator) Option {
	return func(s *settings) {
		s.allocator = a
	}
}

// WithKernelOptions sets the kernel, edge and execution options. The default
// is kernels.DefaultOptions().
func WithKernelOptions(opt kernels.Options) Option {
	return func(s *settings) {
		s.kernel = opt
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		allocator: images.HeapAllocator{},
		kernel:    kernels.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// CreateBlurred allocates a buffer with the geometry of input and blurs input
// into it.
//
// Arguments:
//   - input: The source surface in alpha-first layout.
//   - radius: The blur radius in [1, 65535].
//   - opts: Optional allocator and kernel options.
//
// Returns:
//   - *images.Buffer: The blurred copy, marked dirty once.
//   - error: A wrapped kernels error; no buffer is returned on failure.
//
// @example
// out, err := surface.CreateBlurred(buf, 8)
func CreateBlurred(input images.Surface, radius int, opts ...Option) (*images.Buffer, error) {
	return Apply(FilterBlur, input, radius, opts...)
}

// CreateShadow allocates a buffer with the geometry of input and writes the
// drop-shadow silhouette of input into it.
//
// Arguments:
//   - input: The source surface in alpha-last layout.
//   - radius: The blur radius in [1, 65535].
//   - opts: Optional allocator and kernel options.
//
// Returns:
//   - *images.Buffer: The shadow, marked dirty once.
//   - error: A wrapped kernels error; no buffer is returned on failure.
func CreateShadow(input images.Surface, radius int, opts ...Option) (*images.Buffer, error) {
	return Apply(FilterShadow, input, radius, opts...)
}

// Apply runs filter on input into a newly allocated buffer.
func Apply(filter Filter, input images.Surface, radius int, opts ...Option) (*images.Buffer, error) {
	var run func(in, out images.Surface, radius int, opt kernels.Options) error
	switch filter {
	case FilterBlur:
		run = kernels.Blur
	case FilterShadow:
		run = kernels.Shadow
	default:
		return nil, errors.Wrapf(ErrUnknownFilter, "filter %d", int(filter))
	}

	s := newSettings(opts)
	// Reject bad arguments before asking the allocator for memory.
	if err := kernels.CheckRadius(radius); err != nil {
		return nil, errors.Wrapf(err, "create %s", filter)
	}
	if err := s.kernel.Validate(); err != nil {
		return nil, errors.Wrapf(err, "create %s", filter)
	}

	out, err := images.AllocateLike(s.allocator, input, filter.Layout())
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", filter)
	}
	if err := run(input, out, radius, s.kernel); err != nil {
		release(s.allocator, out)
		return nil, errors.Wrapf(err, "create %s", filter)
	}
	return out, nil
}

// release hands an unused buffer back to allocators that recycle.
func release(a images.Allocator, buf *images.Buffer) {
	if p, ok := a.(interface{ Put(*images.Buffer) }); ok {
		p.Put(buf)
	}
}
