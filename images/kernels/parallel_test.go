package kernels

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-filters/images"
)

func TestRunCoversRangeOnce(t *testing.T) {
	for _, n := range []int{0, 1, 127, 128, 1000, 4097} {
		opt := Options{Parallel: true, Workers: 6}
		seen := make([]int, n)
		var mu sync.Mutex
		opt.run(n, func(start, end int) {
			mu.Lock()
			defer mu.Unlock()
			for i := start; i < end; i++ {
				seen[i]++
			}
		})
		for i, c := range seen {
			require.Equal(t, 1, c, "n=%d index %d", n, i)
		}
	}
}

func TestRunColumnsVisitsEveryCell(t *testing.T) {
	for _, columns := range []int{1, 2, 7, 300} {
		rows := 3
		opt := Options{Parallel: true, Workers: 4}
		var mu sync.Mutex
		seen := make(map[[2]int]int)
		opt.runColumns(columns, rows, func(row, col int) {
			mu.Lock()
			seen[[2]int{row, col}]++
			mu.Unlock()
		})
		assert.Len(t, seen, columns*rows)
		for cell, c := range seen {
			assert.Equal(t, 1, c, "cell %v", cell)
		}
	}
}

// Parallel execution must give byte-identical results to a sequential run,
// including the in-place vertical pass and clamped reads past the bottom edge.
func TestParallelMatchesSequential(t *testing.T) {
	w, h := 300, 40
	stride := images.MinStride(w) + 16

	type filter func(in, out images.Surface, radius int, opt Options) error
	filters := map[string]struct {
		fn     filter
		layout images.Layout
	}{
		"blur":   {fn: Blur, layout: BlurLayout},
		"shadow": {fn: Shadow, layout: ShadowLayout},
	}

	for name, f := range filters {
		for _, edge := range []EdgePolicy{EdgeFlat, EdgeRow} {
			for _, precision := range []Precision{Precision64, Precision32} {
				for _, radius := range []int{1, 4, 25} {
					in := newNoise(t, w, h, stride, f.layout, int64(radius))
					seq := newOutput(t, in, f.layout)
					par := newOutput(t, in, f.layout)

					base := Options{Edge: edge, Precision: precision}
					require.NoError(t, f.fn(in, seq, radius, base))
					base.Parallel, base.Workers = true, 4
					require.NoError(t, f.fn(in, par, radius, base))

					require.Equal(t, seq.Pix(), par.Pix(), "%s %s %s r=%d", name, edge, precision, radius)
				}
			}
		}
	}
}
