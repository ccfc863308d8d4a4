package tasks

import (
	"log/slog"
	"sync"
	"time"

	"github.com/forgo/jobboard/internal/cache"
)

// StatsSource reports cache counters
type StatsSource interface {
	Stats() cache.Stats
}

// CacheStatsReporter periodically logs cache counters and the hit ratio
// since the previous report
type CacheStatsReporter struct {
	source   StatsSource
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
	last     cache.Stats
}

// NewCacheStatsReporter creates a reporter. A nil logger uses slog.Default.
func NewCacheStatsReporter(source StatsSource, logger *slog.Logger, interval time.Duration) *CacheStatsReporter {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheStatsReporter{
		source:   source,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins reporting. Calling Start on a running reporter is a no-op.
func (r *CacheStatsReporter) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run()
	r.logger.Info("cache stats reporter started", slog.Duration("interval", r.interval))
}

// Stop halts reporting and waits for the loop to exit
func (r *CacheStatsReporter) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	r.wg.Wait()
	r.logger.Info("cache stats reporter stopped")
}

func (r *CacheStatsReporter) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce()
		case <-r.stopCh:
			return
		}
	}
}

// RunOnce logs one report and returns the counters it covered
func (r *CacheStatsReporter) RunOnce() cache.Stats {
	r.mu.Lock()
	current := r.source.Stats()
	delta := cache.Stats{
		Hits:      current.Hits - r.last.Hits,
		Misses:    current.Misses - r.last.Misses,
		Evictions: current.Evictions - r.last.Evictions,
		Entries:   current.Entries,
	}
	r.last = current
	r.mu.Unlock()

	r.logger.Info("cache stats",
		slog.Uint64("hits", delta.Hits),
		slog.Uint64("misses", delta.Misses),
		slog.Uint64("evictions", delta.Evictions),
		slog.Int("entries", delta.Entries),
		slog.Float64("hit_ratio", HitRatio(delta)),
	)
	return delta
}

// IsRunning returns whether the reporter is running
func (r *CacheStatsReporter) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// HitRatio returns hits / (hits + misses), or 0 with no lookups
func HitRatio(s cache.Stats) float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
