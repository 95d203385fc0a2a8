// Package profiler collects timing and throughput statistics for filter runs
// and prints a summary report.
package profiler

import (
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"
	"time"
)

// DefaultMaxSamples is the number of samples kept per operation or metric.
const DefaultMaxSamples = 600

// Profiler records operation durations and custom metrics. It is safe for
// concurrent use by the batch workers.
type Profiler struct {
	mu         sync.Mutex
	startTime  time.Time
	maxSamples int
	operations map[string]*TimeTracker
	metrics    map[string]*MetricTracker
}

// TimeTracker tracks operation timing statistics over a sliding window.
type TimeTracker struct {
	durations []time.Duration
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// MetricTracker tracks statistics for a custom metric over a sliding window.
type MetricTracker struct {
	values []float64
	sum    float64
	min    float64
	max    float64
	count  int64
}

// OperationStats is a snapshot of one TimeTracker.
type OperationStats struct {
	Name  string
	Count int64
	Avg   time.Duration
	Min   time.Duration
	Max   time.Duration
}

// MetricStats is a snapshot of one MetricTracker.
type MetricStats struct {
	Name  string
	Count int64
	Avg   float64
	Min   float64
	Max   float64
}

// New creates a profiler keeping up to maxSamples samples per name.
//
// Arguments:
// - maxSamples: Window size; 0 selects DefaultMaxSamples.
//
// Returns:
// - A ready Profiler.
func New(maxSamples int) *Profiler {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	return &Profiler{
		startTime:  time.Now(),
		maxSamples: maxSamples,
		operations: make(map[string]*TimeTracker),
		metrics:    make(map[string]*MetricTracker),
	}
}

// StartOperation begins timing an operation.
//
// Arguments:
// - name: The name of the operation to track.
//
// Returns:
// - A function to call when the operation completes. It returns the duration.
//
// @example
// done := p.StartOperation("blur")
// err := kernels.Blur(in, out, 8, opt)
// elapsed := done()
func (p *Profiler) StartOperation(name string) func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		d := time.Since(start)
		p.RecordDuration(name, d)
		return d
	}
}

// RecordDuration records the completion time of an operation.
func (p *Profiler) RecordDuration(name string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.operations[name]
	if !ok {
		t = &TimeTracker{minTime: d, maxTime: d}
		p.operations[name] = t
	}

	t.durations = append(t.durations, d)
	t.totalTime += d
	if len(t.durations) > p.maxSamples {
		// Remove oldest sample
		t.totalTime -= t.durations[0]
		t.durations = t.durations[1:]
	}
	t.count++
	t.minTime = min(t.minTime, d)
	t.maxTime = max(t.maxTime, d)
}

// RecordMetric records a custom metric value, e.g. megapixels per second.
func (p *Profiler) RecordMetric(name string, value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, ok := p.metrics[name]
	if !ok {
		m = &MetricTracker{min: value, max: value}
		p.metrics[name] = m
	}

	m.values = append(m.values, value)
	m.sum += value
	if len(m.values) > p.maxSamples {
		m.sum -= m.values[0]
		m.values = m.values[1:]
	}
	m.count++
	m.min = min(m.min, value)
	m.max = max(m.max, value)
}

// Operations returns a snapshot of all operation timings sorted by name.
// Avg is taken over the sample window, Min, Max and Count over all samples.
func (p *Profiler) Operations() []OperationStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]OperationStats, 0, len(p.operations))
	for name, t := range p.operations {
		out = append(out, OperationStats{
			Name:  name,
			Count: t.count,
			Avg:   t.totalTime / time.Duration(len(t.durations)),
			Min:   t.minTime,
			Max:   t.maxTime,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Metrics returns a snapshot of all custom metrics sorted by name.
func (p *Profiler) Metrics() []MetricStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]MetricStats, 0, len(p.metrics))
	for name, m := range p.metrics {
		out = append(out, MetricStats{
			Name:  name,
			Count: m.count,
			Avg:   m.sum / float64(len(m.values)),
			Min:   m.min,
			Max:   m.max,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Report writes a status report with memory usage, metrics and timings.
func (p *Profiler) Report(w io.Writer) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	fmt.Fprintf(w, "PROFILER REPORT - %s\n", time.Now().Format("15:04:05.000"))
	fmt.Fprintf(w, "Uptime: %v\n", time.Since(p.startTime).Truncate(time.Millisecond))

	fmt.Fprintf(w, "\nMEMORY USAGE:\n")
	fmt.Fprintf(w, "  Heap Alloc: %s\n", formatBytes(mem.HeapAlloc))
	fmt.Fprintf(w, "  Total Alloc: %s\n", formatBytes(mem.TotalAlloc))
	fmt.Fprintf(w, "  GC Cycles: %d\n", mem.NumGC)

	if metrics := p.Metrics(); len(metrics) > 0 {
		fmt.Fprintf(w, "\nMETRICS:\n")
		for _, m := range metrics {
			fmt.Fprintf(w, "  %s: avg=%.2f, min=%.2f, max=%.2f, samples=%d\n",
				m.Name, m.Avg, m.Min, m.Max, m.Count)
		}
	}

	if ops := p.Operations(); len(ops) > 0 {
		fmt.Fprintf(w, "\nOPERATION TIMINGS:\n")
		for _, op := range ops {
			fmt.Fprintf(w, "  %s: avg=%v, min=%v, max=%v, count=%d\n",
				op.Name, op.Avg.Truncate(time.Microsecond),
				op.Min.Truncate(time.Microsecond),
				op.Max.Truncate(time.Microsecond),
				op.Count)
		}
	}
}

// formatBytes formats byte counts in human-readable format.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
