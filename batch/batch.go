// Package batch runs a filter over a set of encoded images concurrently and
// writes the results as PNG files together with a run summary.
package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-filters/images"
	"github.com/nvr-ai/go-filters/images/kernels"
	"github.com/nvr-ai/go-filters/profiler"
	"github.com/nvr-ai/go-filters/surface"
	"github.com/nvr-ai/go-filters/util"
)

// Options configures a Runner.
type Options struct {
	Filter      surface.Filter  `json:"filter"`
	Radius      int             `json:"radius"`
	Kernel      kernels.Options `json:"kernel"`
	OutputDir   string          `json:"outputDir"`
	MaxWidth    int             `json:"maxWidth"`
	MaxHeight   int             `json:"maxHeight"`
	Concurrency int             `json:"concurrency"`
}

// Result describes one processed image.
type Result struct {
	JobID      string        `json:"jobId"`
	Input      string        `json:"input"`
	Output     string        `json:"output,omitempty"`
	Format     string        `json:"format,omitempty"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Duration   time.Duration `json:"duration"`
	MegaPixels float64       `json:"megaPixels"`
	Error      string        `json:"error,omitempty"`
}

// Runner processes image files with a fixed filter configuration.
type Runner struct {
	opts     Options
	pool     *images.Pool
	profiler *profiler.Profiler
	mu       sync.Mutex
	results  []Result
}

// NewRunner creates a runner. The profiler may be nil.
//
// Arguments:
//   - opts: Filter, radius, kernel options, output directory and limits.
//   - p: Profiler receiving per-stage timings.
//
// Returns:
//   - *Runner: The runner.
//   - error: If the radius, kernel options or concurrency are invalid.
func NewRunner(opts Options, p *profiler.Profiler) (*Runner, error) {
	if err := kernels.CheckRadius(opts.Radius); err != nil {
		return nil, err
	}
	if err := opts.Kernel.Validate(); err != nil {
		return nil, err
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if p == nil {
		p = profiler.New(0)
	}
	return &Runner{
		opts:     opts,
		pool:     &images.Pool{},
		profiler: p,
	}, nil
}

// Run processes every file, at most Concurrency at a time. Per-file failures
// are recorded in the returned results; Run itself only fails when the output
// directory cannot be created or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, files []util.ImageFile) ([]Result, error) {
	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	results := make([]Result, len(files))
	sem := make(chan struct{}, r.opts.Concurrency)
	var wg sync.WaitGroup

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, file util.ImageFile) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = r.process(file)
		}(i, file)
	}
	wg.Wait()

	r.mu.Lock()
	r.results = append(r.results, results...)
	r.mu.Unlock()
	return results, nil
}

// process decodes, filters and encodes a single file.
func (r *Runner) process(file util.ImageFile) Result {
	res := Result{JobID: uuid.NewString(), Input: file.Path}
	fail := func(err error) Result {
		res.Error = err.Error()
		log.Printf("❌ [%s] %s: %v", res.JobID, file.Path, err)
		return res
	}

	doneDecode := r.profiler.StartOperation("decode")
	img, info, err := images.DecodeToFit(file.Data, r.opts.MaxWidth, r.opts.MaxHeight)
	doneDecode()
	if err != nil {
		return fail(err)
	}
	res.Format = string(info.Format)

	in, err := images.FromImage(img, r.opts.Filter.Layout(), 0)
	if err != nil {
		return fail(err)
	}
	res.Width, res.Height = in.Width(), in.Height()
	res.MegaPixels = images.Resolution{Width: in.Width(), Height: in.Height()}.MegaPixels()

	doneFilter := r.profiler.StartOperation(r.opts.Filter.String())
	out, err := surface.Apply(r.opts.Filter, in, r.opts.Radius,
		surface.WithAllocator(r.pool),
		surface.WithKernelOptions(r.opts.Kernel))
	res.Duration = doneFilter()
	if err != nil {
		return fail(err)
	}
	defer r.pool.Put(out)
	if secs := res.Duration.Seconds(); secs > 0 {
		r.profiler.RecordMetric("megapixels_per_sec", float64(in.Width()*in.Height())/1e6/secs)
	}

	var buf bytes.Buffer
	doneEncode := r.profiler.StartOperation("encode")
	err = images.EncodePNG(&buf, images.ToRGBA(out))
	doneEncode()
	if err != nil {
		return fail(err)
	}

	name := fmt.Sprintf("%s-%s.png", file.Name(), r.opts.Filter)
	res.Output = filepath.Join(r.opts.OutputDir, name)
	if err := os.WriteFile(res.Output, buf.Bytes(), 0o644); err != nil {
		res.Output = ""
		return fail(errors.Wrap(err, "failed to write output"))
	}

	log.Printf("✅ [%s] %s -> %s (%dx%d, %v)", res.JobID, file.Path, res.Output,
		res.Width, res.Height, res.Duration.Truncate(time.Microsecond))
	return res
}

// Results returns the results of every Run so far.
func (r *Runner) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Result, len(r.results))
	copy(out, r.results)
	return out
}

// SaveSummary writes the results of every Run as JSON into the output
// directory and returns the file path.
func (r *Runner) SaveSummary() (string, error) {
	data, err := json.MarshalIndent(struct {
		Options Options  `json:"options"`
		Results []Result `json:"results"`
	}{Options: r.opts, Results: r.Results()}, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal results")
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(r.opts.OutputDir, fmt.Sprintf("summary_%s.json", timestamp))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write summary")
	}
	return path, nil
}
