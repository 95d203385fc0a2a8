package kernels

import (
	"runtime"
	"sync"
)

// minParallelWork is the smallest partition worth a goroutine.
const minParallelWork = 64

// run executes fn over [0, n), split across goroutines when o.Parallel is set.
// Each goroutine receives a contiguous [start, end) range and all of them
// finish before run returns, so consecutive calls form a barrier.
//
// @example
//
//	opt.run(height, func(start, end int) {
//	    for y := start; y < end; y++ {
//	        // Process row y
//	    }
//	})
func (o Options) run(n int, fn func(start, end int)) {
	workers := o.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if !o.Parallel || workers < 2 || n < 2*minParallelWork {
		fn(0, n)
		return
	}
	if max := n / minParallelWork; workers > max {
		workers = max
	}

	partSize := n / workers
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		start := i * partSize
		end := start + partSize
		// Last partition gets any remaining work.
		if i == workers-1 {
			end = n
		}
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}

// runColumns visits every (row, col) cell of a rows x columns grid for an
// in-place vertical pass.
//
// Columns are grouped in mirrored pairs {c, columns-1-c} and each pair is
// walked in row-major order. A clamped vertical read lands either in its own
// column or, past the bottom edge, in the mirrored column of the last row, so
// a pair never reads a cell owned by another pair and the result matches a
// plain sequential row-major scan.
func (o Options) runColumns(columns, rows int, visit func(row, col int)) {
	pairs := (columns + 1) / 2
	o.run(pairs, func(start, end int) {
		for p := start; p < end; p++ {
			left, right := p, columns-1-p
			for y := 0; y < rows; y++ {
				visit(y, left)
				if right != left {
					visit(y, right)
				}
			}
		}
	})
}
