package refcheck

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"strongref/alloc"
)

// Tracker is an alloc.Allocator decorator that accounts for every block
// the inner allocator hands out.
type Tracker struct {
	inner        alloc.Allocator
	logger       zerolog.Logger
	maxLiveBytes uint64
	leakLogLimit int

	liveBytes atomic.Int64
	allocated atomic.Uint64
	freed     atomic.Uint64

	mu   sync.Mutex
	live map[unsafe.Pointer]uintptr

	LiveBlocksMetric       prometheus.Gauge
	LiveBytesMetric        prometheus.Gauge
	AllocationsTotalMetric prometheus.Counter
	FreesTotalMetric       prometheus.Counter
}

// Wrap returns inner decorated with a Tracker, or inner itself when the
// config disables tracking.
func (c Config) Wrap(inner alloc.Allocator, reg prometheus.Registerer, logger zerolog.Logger) alloc.Allocator {
	if t := c.Tracker(inner, reg, logger); t != nil {
		return t
	}
	return inner
}

// Tracker builds a Tracker over inner, or nil when tracking is disabled.
func (c Config) Tracker(inner alloc.Allocator, reg prometheus.Registerer, logger zerolog.Logger) *Tracker {
	if !c.Enabled {
		return nil
	}

	t := &Tracker{
		inner:        inner,
		logger:       logger,
		maxLiveBytes: c.MaxLiveBytes,
		leakLogLimit: c.LeakLogLimit,
		live:         make(map[unsafe.Pointer]uintptr),
	}
	if t.leakLogLimit == 0 {
		t.leakLogLimit = 10
	}

	t.LiveBlocksMetric = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "strongref_live_blocks",
		Help: "Number of allocator blocks currently live.",
	})
	t.LiveBytesMetric = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "strongref_live_bytes",
		Help: "Total bytes of allocator blocks currently live.",
	})
	t.AllocationsTotalMetric = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "strongref_allocations_total",
		Help: "Total number of blocks allocated.",
	})
	t.FreesTotalMetric = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "strongref_frees_total",
		Help: "Total number of blocks freed.",
	})
	return t
}

func (t *Tracker) Allocate(size, align uintptr) unsafe.Pointer {
	p := t.inner.Allocate(size, align)

	t.mu.Lock()
	t.live[p] = size
	blocks := len(t.live)
	t.mu.Unlock()

	liveBytes := t.liveBytes.Add(int64(size))
	t.allocated.Inc()
	t.AllocationsTotalMetric.Inc()
	t.LiveBlocksMetric.Set(float64(blocks))
	t.LiveBytesMetric.Set(float64(liveBytes))

	if t.maxLiveBytes > 0 && uint64(liveBytes) > t.maxLiveBytes {
		t.logger.Warn().
			Int64("live_bytes", liveBytes).
			Uint64("max_live_bytes", t.maxLiveBytes).
			Msg("live allocation volume above configured limit")
	}
	return p
}

func (t *Tracker) Deallocate(p unsafe.Pointer, size uintptr) {
	t.mu.Lock()
	recorded, known := t.live[p]
	delete(t.live, p)
	blocks := len(t.live)
	t.mu.Unlock()

	if !known {
		t.logger.Error().
			Str("block", fmt.Sprintf("%p", p)).
			Msg("free of a block this tracker never allocated")
	} else if recorded != size {
		t.logger.Error().
			Str("block", fmt.Sprintf("%p", p)).
			Uint64("allocated_size", uint64(recorded)).
			Uint64("freed_size", uint64(size)).
			Msg("free size does not match allocation size")
	}

	liveBytes := t.liveBytes.Sub(int64(size))
	t.freed.Inc()
	t.FreesTotalMetric.Inc()
	t.LiveBlocksMetric.Set(float64(blocks))
	t.LiveBytesMetric.Set(float64(liveBytes))

	t.inner.Deallocate(p, size)
}

// LiveBlocks reports the number of blocks not yet freed.
func (t *Tracker) LiveBlocks() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// LiveBytes reports the byte total of blocks not yet freed.
func (t *Tracker) LiveBytes() int64 {
	return t.liveBytes.Load()
}

// Check returns an error describing still-live blocks, or nil when
// everything allocated through the tracker has been freed. Meant for
// test teardown and shutdown paths.
func (t *Tracker) Check() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.live) == 0 {
		return nil
	}
	return fmt.Errorf("refcheck: %d blocks (%d bytes) still live", len(t.live), t.liveBytes.Load())
}

// Report logs a summary of tracker activity, with one line per leaked
// block up to the configured limit.
func (t *Tracker) Report() {
	t.mu.Lock()
	leaked := make(map[unsafe.Pointer]uintptr, len(t.live))
	for p, size := range t.live {
		leaked[p] = size
	}
	t.mu.Unlock()

	if len(leaked) == 0 {
		t.logger.Info().
			Uint64("allocated_total", t.allocated.Load()).
			Uint64("freed_total", t.freed.Load()).
			Msg("no leaked blocks")
		return
	}

	t.logger.Warn().
		Int("leaked_blocks", len(leaked)).
		Int64("leaked_bytes", t.liveBytes.Load()).
		Msg("allocator blocks leaked")
	logged := 0
	for p, size := range leaked {
		if logged >= t.leakLogLimit {
			t.logger.Warn().Int("suppressed", len(leaked)-logged).Msg("further leaked blocks suppressed")
			break
		}
		t.logger.Warn().
			Str("block", fmt.Sprintf("%p", p)).
			Uint64("size", uint64(size)).
			Msg("leaked block")
		logged++
	}
}
