// Package profiler records how long editing operations take and reports the
// figures alongside the process's memory usage.
package profiler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"
)

// Options configures a Profiler.
type Options struct {
	// ReportInterval specifies how often Start emits a report (default: 2s).
	ReportInterval time.Duration
	// MaxSamples specifies how many durations each operation keeps (default: 600).
	MaxSamples int
	// Logger receives the periodic reports. Defaults to slog.Default().
	Logger *slog.Logger
}

// Profiler tracks operation timings. It is safe for concurrent use.
type Profiler struct {
	reportInterval time.Duration
	maxSamples     int
	logger         *slog.Logger

	mu        sync.RWMutex
	startTime time.Time
	running   bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	operations map[string]*timeTracker
}

// timeTracker keeps a rolling window of durations for one operation.
type timeTracker struct {
	durations []time.Duration
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// Stats is a snapshot of one operation's timings.
type Stats struct {
	Name  string        `json:"name" yaml:"name"`
	Count int64         `json:"count" yaml:"count"`
	Avg   time.Duration `json:"avg" yaml:"avg"`
	Min   time.Duration `json:"min" yaml:"min"`
	Max   time.Duration `json:"max" yaml:"max"`
}

// New creates a profiler with the specified options.
//
// Arguments:
// - opts: Configuration options for the profiler.
//
// Returns:
// - A configured Profiler. Timing starts immediately; Start only adds the
// periodic report.
func New(opts Options) *Profiler {
	if opts.ReportInterval <= 0 {
		opts.ReportInterval = 2 * time.Second
	}
	if opts.MaxSamples <= 0 {
		opts.MaxSamples = 600
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Profiler{
		reportInterval: opts.ReportInterval,
		maxSamples:     opts.MaxSamples,
		logger:         opts.Logger,
		startTime:      time.Now(),
		operations:     make(map[string]*timeTracker),
	}
}

// Start emits a report every ReportInterval until ctx is done or Stop is
// called. Calling Start on a running profiler does nothing.
func (p *Profiler) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.running = true

	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(p.reportInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.logReport()
			}
		}
	}()
}

// Stop halts the periodic report and waits for it to exit.
func (p *Profiler) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	p.mu.Unlock()

	cancel()
	p.wg.Wait()
}

// StartOperation begins timing an operation.
//
// Arguments:
// - name: The name of the operation to track.
//
// Returns:
// - A function to call when the operation completes.
//
// @example
// defer prof.StartOperation("median")()
func (p *Profiler) StartOperation(name string) func() {
	start := time.Now()
	return func() {
		p.Record(name, time.Since(start))
	}
}

// Record adds one completed run of name.
func (p *Profiler) Record(name string, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tracker, exists := p.operations[name]
	if !exists {
		tracker = &timeTracker{
			minTime: duration,
			maxTime: duration,
		}
		p.operations[name] = tracker
	}

	tracker.durations = append(tracker.durations, duration)
	if len(tracker.durations) > p.maxSamples {
		// Drop the oldest sample.
		tracker.totalTime -= tracker.durations[0]
		tracker.durations = tracker.durations[1:]
	}

	tracker.totalTime += duration
	tracker.count++

	if duration < tracker.minTime {
		tracker.minTime = duration
	}
	if duration > tracker.maxTime {
		tracker.maxTime = duration
	}
}

// Stats returns the timings of a single operation.
func (p *Profiler) Stats(name string) (Stats, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	tracker, ok := p.operations[name]
	if !ok {
		return Stats{}, false
	}
	return tracker.stats(name), true
}

// Snapshot returns the timings of every operation seen so far, sorted by name.
func (p *Profiler) Snapshot() []Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Stats, 0, len(p.operations))
	for name, tracker := range p.operations {
		out = append(out, tracker.stats(name))
	}
	slices.SortFunc(out, func(a, b Stats) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}

func (t *timeTracker) stats(name string) Stats {
	s := Stats{Name: name, Count: t.count, Min: t.minTime, Max: t.maxTime}
	if len(t.durations) > 0 {
		s.Avg = t.totalTime / time.Duration(len(t.durations))
	}
	return s
}

// WriteReport prints uptime, memory usage and operation timings to w.
func (p *Profiler) WriteReport(w io.Writer) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	p.mu.RLock()
	uptime := time.Since(p.startTime)
	p.mu.RUnlock()

	if _, err := fmt.Fprintf(w, "PROFILER REPORT - %s\n", time.Now().Format("15:04:05.000")); err != nil {
		return err
	}
	fmt.Fprintf(w, "Uptime: %v\n", uptime.Truncate(time.Millisecond))

	fmt.Fprintf(w, "\nMEMORY USAGE:\n")
	fmt.Fprintf(w, "  Alloc: %s\n", formatBytes(mem.Alloc))
	fmt.Fprintf(w, "  Total Alloc: %s\n", formatBytes(mem.TotalAlloc))
	fmt.Fprintf(w, "  Heap Objects: %d\n", mem.HeapObjects)
	fmt.Fprintf(w, "  GC Cycles: %d\n", mem.NumGC)

	stats := p.Snapshot()
	if len(stats) > 0 {
		fmt.Fprintf(w, "\nOPERATION TIMINGS:\n")
		for _, s := range stats {
			fmt.Fprintf(w, "  %s: avg=%v, min=%v, max=%v, count=%d\n",
				s.Name,
				s.Avg.Truncate(time.Microsecond),
				s.Min.Truncate(time.Microsecond),
				s.Max.Truncate(time.Microsecond),
				s.Count)
		}
	}
	return nil
}

func (p *Profiler) logReport() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	p.logger.Info("profiler",
		"alloc", formatBytes(mem.Alloc),
		"heap_objects", mem.HeapObjects,
		"goroutines", runtime.NumGoroutine())
	for _, s := range p.Snapshot() {
		p.logger.Info("operation",
			"name", s.Name,
			"count", s.Count,
			"avg", s.Avg.Truncate(time.Microsecond),
			"max", s.Max.Truncate(time.Microsecond))
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
