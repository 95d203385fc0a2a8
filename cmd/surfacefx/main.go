package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-filters/batch"
	"github.com/nvr-ai/go-filters/config"
	"github.com/nvr-ai/go-filters/profiler"
	"github.com/nvr-ai/go-filters/util"
)

func main() {
	var (
		configDir   = flag.String("config", ".", "Directory containing "+config.FileName)
		input       = flag.String("input", "", "Image file or directory of images")
		filter      = flag.String("filter", "", "Filter to apply: blur or shadow")
		radius      = flag.Int("radius", 0, "Blur radius in [1, 65535]")
		kernel      = flag.String("kernel", "", "Kernel formula: reference, gaussian or box")
		edge        = flag.String("edge", "", "Edge policy: flat or row")
		precision   = flag.String("precision", "", "Accumulator precision: float64 or float32")
		parallel    = flag.Bool("parallel", false, "Split each pass across goroutines")
		workers     = flag.Int("workers", 0, "Goroutines per pass (0 = NumCPU)")
		outputDir   = flag.String("output", "", "Output directory")
		resolution  = flag.String("resolution", "", "Downscale inputs to fit a preset (720p, 1080p, 4k, ...)")
		maxWidth    = flag.Int("max-width", 0, "Downscale inputs wider than this")
		maxHeight   = flag.Int("max-height", 0, "Downscale inputs taller than this")
		concurrency = flag.Int("concurrency", 0, "Images processed at once")
		report      = flag.Bool("report", false, "Print a timing report when done")
		timeout     = flag.Duration("timeout", 30*time.Minute, "Overall timeout")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("Input path is required (-input)")
	}

	cfg, err := config.LoadOptional(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags given on the command line override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "filter":
			cfg.Filter.Name = *filter
		case "radius":
			cfg.Filter.Radius = *radius
		case "kernel":
			cfg.Filter.Kernel = *kernel
		case "edge":
			cfg.Filter.Edge = *edge
		case "precision":
			cfg.Filter.Precision = *precision
		case "parallel":
			cfg.Filter.Parallel = *parallel
		case "workers":
			cfg.Filter.Workers = *workers
		case "output":
			cfg.Output.Dir = *outputDir
		case "resolution":
			cfg.Output.Resolution = *resolution
		case "max-width":
			cfg.Output.MaxWidth = *maxWidth
		case "max-height":
			cfg.Output.MaxHeight = *maxHeight
		case "concurrency":
			cfg.Batch.Concurrency = *concurrency
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	opts, err := runnerOptions(cfg)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	files, err := loadInput(*input)
	if err != nil {
		log.Fatalf("Failed to load input: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("No images found in %s", *input)
	}

	p := profiler.New(0)
	runner, err := batch.NewRunner(opts, p)
	if err != nil {
		log.Fatalf("Failed to create runner: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	log.Printf("🚀 %s r=%d on %d image(s), kernel=%s edge=%s precision=%s parallel=%v",
		opts.Filter, opts.Radius, len(files),
		opts.Kernel.Formula, opts.Kernel.Edge, opts.Kernel.Precision, opts.Kernel.Parallel)

	start := time.Now()
	results, err := runner.Run(ctx, files)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}

	summary, err := runner.SaveSummary()
	if err != nil {
		log.Printf("⚠️ Failed to save summary: %v", err)
	} else {
		log.Printf("📄 Summary saved to: %s", summary)
	}

	if *report {
		p.Report(os.Stdout)
	}

	log.Printf("🏁 %d/%d image(s) done in %v", len(results)-failed, len(results), time.Since(start).Truncate(time.Millisecond))
	if failed > 0 {
		stop()
		cancel()
		os.Exit(1)
	}
}

// runnerOptions converts a validated configuration into batch options.
func runnerOptions(cfg *config.Config) (batch.Options, error) {
	kind, err := cfg.FilterKind()
	if err != nil {
		return batch.Options{}, err
	}
	kernelOpts, err := cfg.KernelOptions()
	if err != nil {
		return batch.Options{}, err
	}
	w, h, err := cfg.MaxSize()
	if err != nil {
		return batch.Options{}, err
	}
	return batch.Options{
		Filter:      kind,
		Radius:      cfg.Filter.Radius,
		Kernel:      kernelOpts,
		OutputDir:   cfg.Output.Dir,
		MaxWidth:    w,
		MaxHeight:   h,
		Concurrency: cfg.Batch.Concurrency,
	}, nil
}

// loadInput reads a single image file or every image in a directory.
func loadInput(path string) ([]util.ImageFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return util.LoadDirectoryImageFiles(path)
	}
	if !util.IsImageFile(path) {
		return nil, errors.Errorf("%s is not a supported image file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []util.ImageFile{{Path: path, Data: data, Frame: -1}}, nil
}
