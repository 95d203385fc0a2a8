package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapAllocator(t *testing.T) {
	buf, err := HeapAllocator{}.Allocate(8, 8, 32, AlphaLast)
	require.NoError(t, err)
	assert.Equal(t, AlphaLast, buf.Layout)
	assert.Len(t, buf.Pix(), 256)

	_, err = HeapAllocator{MaxBytes: 255}.Allocate(8, 8, 32, AlphaLast)
	assert.ErrorIs(t, err, ErrAllocation)

	_, err = HeapAllocator{}.Allocate(0, 8, 32, AlphaLast)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

// fixedAllocator ignores the requested geometry.
type fixedAllocator struct{}

func (fixedAllocator) Allocate(_, _, _ int, layout Layout) (*Buffer, error) {
	return NewBuffer(1, 1, 4, layout)
}

func TestAllocateLike(t *testing.T) {
	src, err := NewBuffer(5, 3, 24, AlphaFirst)
	require.NoError(t, err)

	out, err := AllocateLike(nil, src, AlphaLast)
	require.NoError(t, err)
	assert.True(t, SameGeometry(src, out))
	assert.Equal(t, AlphaLast, out.Layout)

	_, err = AllocateLike(fixedAllocator{}, src, AlphaFirst)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = AllocateLike(HeapAllocator{MaxBytes: 10}, src, AlphaFirst)
	assert.ErrorIs(t, err, ErrAllocation)

	_, err = AllocateLike(nil, nil, AlphaFirst)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestPoolReuse(t *testing.T) {
	var p Pool
	buf, err := p.Allocate(4, 4, 16, AlphaFirst)
	require.NoError(t, err)
	buf.Fill([4]uint8{1, 2, 3, 4})
	buf.OnDirty = func() {}
	buf.MarkDirty()
	p.Put(buf)
	assert.Equal(t, 1, p.Idle())

	again, err := p.Allocate(4, 4, 16, AlphaLast)
	require.NoError(t, err)
	assert.Same(t, buf, again)
	assert.Equal(t, make([]byte, 64), again.Pix())
	assert.Equal(t, AlphaLast, again.Layout)
	assert.Nil(t, again.OnDirty)
	assert.Zero(t, again.Generation())
	assert.Zero(t, p.Idle())
}

func TestPoolKeepsMixedGeometries(t *testing.T) {
	var p Pool
	large, err := p.Allocate(4, 4, 16, AlphaFirst)
	require.NoError(t, err)
	p.Put(large)

	// A miss on another geometry must leave the idle buffer in place.
	small, err := p.Allocate(2, 2, 8, AlphaFirst)
	require.NoError(t, err)
	assert.NotSame(t, large, small)
	assert.Len(t, small.Pix(), 16)
	assert.Equal(t, 1, p.Idle())
	p.Put(small)
	assert.Equal(t, 2, p.Idle())

	padded, err := p.Allocate(4, 4, 20, AlphaFirst)
	require.NoError(t, err)
	assert.NotSame(t, large, padded)

	got, err := p.Allocate(4, 4, 16, AlphaFirst)
	require.NoError(t, err)
	assert.Same(t, large, got)
	got, err = p.Allocate(2, 2, 8, AlphaFirst)
	require.NoError(t, err)
	assert.Same(t, small, got)
}

func TestPoolMaxIdle(t *testing.T) {
	p := Pool{MaxIdle: 2}
	for i := 0; i < 3; i++ {
		buf, err := NewBuffer(2, 2, 8, AlphaFirst)
		require.NoError(t, err)
		p.Put(buf)
	}
	assert.Equal(t, 2, p.Idle())

	p.Put(&Buffer{width: 2, height: 2, stride: 8, pix: make([]byte, 3)})
	var typedNil *Buffer
	p.Put(typedNil)
	assert.Equal(t, 2, p.Idle())
}

func TestNilPool(t *testing.T) {
	var p *Pool
	buf, err := p.Allocate(2, 2, 8, AlphaFirst)
	require.NoError(t, err)
	assert.Len(t, buf.Pix(), 16)
	p.Put(buf)
	assert.Zero(t, p.Idle())
}
