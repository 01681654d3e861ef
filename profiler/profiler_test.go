package profiler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStats(t *testing.T) {
	p := New(Options{})

	p.Record("blur", 10*time.Millisecond)
	p.Record("blur", 30*time.Millisecond)
	p.Record("blur", 20*time.Millisecond)

	s, ok := p.Stats("blur")
	require.True(t, ok)
	assert.Equal(t, int64(3), s.Count)
	assert.Equal(t, 20*time.Millisecond, s.Avg)
	assert.Equal(t, 10*time.Millisecond, s.Min)
	assert.Equal(t, 30*time.Millisecond, s.Max)

	_, ok = p.Stats("median")
	assert.False(t, ok)
}

func TestRollingWindow(t *testing.T) {
	p := New(Options{MaxSamples: 2})

	p.Record("resize", 100*time.Millisecond)
	p.Record("resize", 2*time.Millisecond)
	p.Record("resize", 4*time.Millisecond)

	s, _ := p.Stats("resize")
	assert.Equal(t, int64(3), s.Count)
	assert.Equal(t, 3*time.Millisecond, s.Avg)
	// Extremes are kept across the window.
	assert.Equal(t, 100*time.Millisecond, s.Max)
}

func TestStartOperation(t *testing.T) {
	p := New(Options{})
	done := p.StartOperation("negative")
	time.Sleep(time.Millisecond)
	done()

	s, ok := p.Stats("negative")
	require.True(t, ok)
	assert.Equal(t, int64(1), s.Count)
	assert.GreaterOrEqual(t, s.Min, time.Millisecond)
}

func TestSnapshotSortedAndConcurrent(t *testing.T) {
	p := New(Options{})

	var wg sync.WaitGroup
	for _, name := range []string{"rotate", "affine", "mosaic"} {
		for i := 0; i < 10; i++ {
			name := name
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.Record(name, time.Microsecond)
			}()
		}
	}
	wg.Wait()

	snap := p.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "affine", snap[0].Name)
	assert.Equal(t, "mosaic", snap[1].Name)
	assert.Equal(t, "rotate", snap[2].Name)
	for _, s := range snap {
		assert.Equal(t, int64(10), s.Count)
	}
}

func TestWriteReport(t *testing.T) {
	p := New(Options{})
	p.Record("median", 5*time.Millisecond)

	var buf bytes.Buffer
	require.NoError(t, p.WriteReport(&buf))
	assert.Contains(t, buf.String(), "MEMORY USAGE")
	assert.Contains(t, buf.String(), "median: avg=5ms")
}

func TestStartStop(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	p := New(Options{ReportInterval: 5 * time.Millisecond, Logger: logger})
	p.Record("unsharp", time.Millisecond)

	p.Start(context.Background())
	p.Start(context.Background())
	require.Eventually(t, func() bool {
		p.mu.RLock()
		defer p.mu.RUnlock()
		return p.running
	}, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	p.Stop()
	p.Stop()

	assert.Contains(t, buf.String(), "name=unsharp")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2*1024*1024))
}

func TestNewDefaults(t *testing.T) {
	p := New(Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	assert.Equal(t, 2*time.Second, p.reportInterval)
	assert.Equal(t, 600, p.maxSamples)
}
