package images

import (
	"sync"

	"github.com/pkg/errors"
)

// Allocator creates output buffers for the filters.
type Allocator interface {
	Allocate(width, height, stride int, layout Layout) (*Buffer, error)
}

// DefaultMaxBytes bounds single allocations made by HeapAllocator when
// MaxBytes is zero (1 GiB, well above a 16k x 16k ARGB surface).
const DefaultMaxBytes = 1 << 30

// HeapAllocator allocates fresh zeroed buffers.
type HeapAllocator struct {
	// MaxBytes rejects requests larger than this many bytes. Zero means
	// DefaultMaxBytes.
	MaxBytes int
}

// Allocate returns a new zeroed buffer or ErrAllocation when the request
// exceeds the configured bound.
func (a HeapAllocator) Allocate(width, height, stride int, layout Layout) (*Buffer, error) {
	size, err := bufferSize(width, height, stride)
	if err != nil {
		return nil, err
	}
	limit := a.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if size > limit {
		return nil, errors.Wrapf(ErrAllocation, "%d bytes requested, limit %d", size, limit)
	}
	return NewBuffer(width, height, stride, layout)
}

// AllocateLike allocates a buffer with the geometry of s.
//
// Arguments:
// - a: The allocator to use. Nil means HeapAllocator{}.
// - s: The surface whose width, height and stride are copied.
// - layout: The channel order of the new buffer.
//
// Returns:
// - The new buffer.
// - error if s is invalid or the allocation is refused.
func AllocateLike(a Allocator, s Surface, layout Layout) (*Buffer, error) {
	if err := ValidateSurface(s); err != nil {
		return nil, err
	}
	if a == nil {
		a = HeapAllocator{}
	}
	buf, err := a.Allocate(s.Width(), s.Height(), s.Stride(), layout)
	if err != nil {
		return nil, err
	}
	if !SameGeometry(buf, s) {
		return nil, errors.Wrapf(ErrInvalidGeometry, "allocator returned %dx%d/%d for %dx%d/%d",
			buf.Width(), buf.Height(), buf.Stride(), s.Width(), s.Height(), s.Stride())
	}
	return buf, nil
}

// DefaultMaxIdle bounds the idle buffers a Pool keeps per geometry when
// MaxIdle is zero.
const DefaultMaxIdle = 4

// geometry keys idle buffers in a Pool.
type geometry struct {
	width, height, stride int
}

// Pool lets callers reuse output buffers to reduce GC pressure when the same
// geometries are filtered repeatedly (video frames, UI redraws, mixed-size
// batches). Idle buffers are kept per geometry. A nil *Pool allocates from
// the heap.
type Pool struct {
	mu   sync.Mutex
	idle map[geometry][]*Buffer

	// MaxBytes is forwarded to the heap allocator on a miss.
	MaxBytes int
	// MaxIdle caps idle buffers per geometry. Zero means DefaultMaxIdle.
	MaxIdle int
}

// Allocate returns a zeroed buffer, reusing an idle one of the same geometry
// when there is one. A reused buffer starts at generation 0 with no OnDirty
// callback.
func (p *Pool) Allocate(width, height, stride int, layout Layout) (*Buffer, error) {
	if p == nil {
		return HeapAllocator{}.Allocate(width, height, stride, layout)
	}
	if buf := p.take(geometry{width, height, stride}); buf != nil {
		clear(buf.pix)
		buf.Layout = layout
		buf.OnDirty = nil
		buf.generation.Store(0)
		return buf, nil
	}
	return HeapAllocator{MaxBytes: p.MaxBytes}.Allocate(width, height, stride, layout)
}

func (p *Pool) take(key geometry) *Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	list := p.idle[key]
	if len(list) == 0 {
		return nil
	}
	buf := list[len(list)-1]
	list[len(list)-1] = nil
	p.idle[key] = list[:len(list)-1]
	return buf
}

// Put hands a buffer back for reuse. The caller must not touch it afterwards.
// Buffers beyond MaxIdle for their geometry are left to the garbage collector.
func (p *Pool) Put(buf *Buffer) {
	if p == nil || buf == nil || ValidateSurface(buf) != nil {
		return
	}
	limit := p.MaxIdle
	if limit <= 0 {
		limit = DefaultMaxIdle
	}
	key := geometry{buf.width, buf.height, buf.stride}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.idle == nil {
		p.idle = make(map[geometry][]*Buffer)
	}
	if len(p.idle[key]) >= limit {
		return
	}
	p.idle[key] = append(p.idle[key], buf)
}

// Idle returns the number of buffers waiting for reuse across all geometries.
func (p *Pool) Idle() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, list := range p.idle {
		n += len(list)
	}
	return n
}
