package kernels

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-filters/images"
)

// newFilled creates a packed buffer with every pixel set to argb.
func newFilled(t testing.TB, w, h int, layout images.Layout, argb [4]uint8) *images.Buffer {
	t.Helper()
	buf, err := images.NewBuffer(w, h, images.MinStride(w), layout)
	require.NoError(t, err)
	buf.Fill(argb)
	return buf
}

// newNoise creates a buffer of deterministic random bytes, padding included.
func newNoise(t testing.TB, w, h, stride int, layout images.Layout, seed int64) *images.Buffer {
	t.Helper()
	buf, err := images.NewBuffer(w, h, stride, layout)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(seed))
	for i := range buf.Pix() {
		buf.Pix()[i] = uint8(rng.Intn(256))
	}
	return buf
}

// newOutput allocates an empty buffer with the geometry of in.
func newOutput(t testing.TB, in *images.Buffer, layout images.Layout) *images.Buffer {
	t.Helper()
	out, err := images.NewBuffer(in.Width(), in.Height(), in.Stride(), layout)
	require.NoError(t, err)
	return out
}

// flushRecorder records Flush calls and the dirty state at that moment.
type flushRecorder struct {
	*images.Buffer
	flushes      int
	dirtyAtFlush uint64
}

func (f *flushRecorder) Flush() {
	f.flushes++
	f.dirtyAtFlush = f.Generation()
}
