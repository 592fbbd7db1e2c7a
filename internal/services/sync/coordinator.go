// Package sync implements the fetch-or-fallback coordinator that keeps
// the dashboard's five metrics populated, online or offline.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/cache"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/logger"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/models"
)

// ErrNoOfflineData is returned for a metric that can be served neither
// from the network nor from the cache.
var ErrNoOfflineData = errors.New("no data available offline")

// Fetcher retrieves one metric payload from the backend.
type Fetcher interface {
	FetchMetric(ctx context.Context, metric models.Metric, timeRange models.TimeRange) (json.RawMessage, error)
}

// Cache is the persistent key/value store used for offline fallback.
type Cache interface {
	Get(ctx context.Context, key string) (cache.Entry, bool, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
}

// StatusSource reports current connectivity.
type StatusSource interface {
	Online() bool
}

// Source identifies where a metric's data came from.
type Source int

const (
	// SourceLive means the data came from a fresh fetch.
	SourceLive Source = iota
	// SourceCache means the data is a cached fallback.
	SourceCache
	// SourceNone means no data could be produced.
	SourceNone
)

// Result is the terminal outcome of one metric's sync. Every metric of
// every SyncAll call produces exactly one Result, so the view state is
// never left loading.
type Result struct {
	Metric     models.Metric
	TimeRange  models.TimeRange
	Generation uint64
	Data       json.RawMessage
	Source     Source
	CachedAt   time.Time
	Err        error
}

// EventType defines the type of sync event.
type EventType int

const (
	// EventSyncStarted is emitted when a SyncAll begins.
	EventSyncStarted EventType = iota
	// EventMetricUpdated is emitted as each metric resolves.
	EventMetricUpdated
	// EventSyncCompleted is emitted after every metric has resolved.
	EventSyncCompleted
)

// Event is published on the coordinator's event channel.
type Event struct {
	Type       EventType
	Generation uint64
	TimeRange  models.TimeRange
	Result     Result
}

// Config holds configuration for the coordinator.
type Config struct {
	// MaxConcurrent bounds concurrent metric fetches within one sync.
	MaxConcurrent int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{MaxConcurrent: 5}
}

// Coordinator decides, per metric, whether to fetch live or serve
// cached data, and keeps the cache warm on the way through.
type Coordinator struct {
	fetcher Fetcher
	cache   Cache
	status  StatusSource

	eventChan  chan Event
	sem        chan struct{}
	generation atomic.Uint64

	mu        stdsync.RWMutex
	timeRange models.TimeRange
}

// New creates a coordinator. The initial time range applies until
// SetTimeRange replaces it.
func New(fetcher Fetcher, store Cache, status StatusSource, initialRange models.TimeRange, config Config) *Coordinator {
	if config.MaxConcurrent <= 0 {
		config = DefaultConfig()
	}
	return &Coordinator{
		fetcher:   fetcher,
		cache:     store,
		status:    status,
		eventChan: make(chan Event, 32),
		sem:       make(chan struct{}, config.MaxConcurrent),
		timeRange: initialRange,
	}
}

// Events returns the event channel.
func (c *Coordinator) Events() <-chan Event {
	return c.eventChan
}

// TimeRange returns the active time range.
func (c *Coordinator) TimeRange() models.TimeRange {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timeRange
}

// SetTimeRange replaces the active time range. Cached entries for
// other ranges are left untouched; callers follow up with SyncAll.
func (c *Coordinator) SetTimeRange(r models.TimeRange) {
	c.mu.Lock()
	c.timeRange = r
	c.mu.Unlock()
}

// SyncAll populates all five metrics for the given time range. The
// fetches run concurrently and independently: one metric's failure
// never aborts the others, and the call always returns a Result per
// metric. Results carry a generation stamp so that consumers can
// discard output from a sync that was superseded while in flight.
func (c *Coordinator) SyncAll(ctx context.Context, timeRange models.TimeRange) []Result {
	gen := c.generation.Add(1)
	c.SetTimeRange(timeRange)

	c.sendEvent(Event{Type: EventSyncStarted, Generation: gen, TimeRange: timeRange})
	logger.Debug("sync started", "generation", gen, "timeRange", timeRange.Param())

	metrics := models.AllMetrics()
	results := make([]Result, len(metrics))

	var wg stdsync.WaitGroup
	for i, metric := range metrics {
		wg.Add(1)
		go func(i int, metric models.Metric) {
			defer wg.Done()
			c.sem <- struct{}{}
			defer func() { <-c.sem }()

			results[i] = c.syncOne(ctx, metric, timeRange, gen)
			c.sendEvent(Event{
				Type:       EventMetricUpdated,
				Generation: gen,
				TimeRange:  timeRange,
				Result:     results[i],
			})
		}(i, metric)
	}
	wg.Wait()

	c.sendEvent(Event{Type: EventSyncCompleted, Generation: gen, TimeRange: timeRange})
	logger.Debug("sync completed", "generation", gen)

	return results
}

// SyncCurrent runs SyncAll with the active time range.
func (c *Coordinator) SyncCurrent(ctx context.Context) []Result {
	return c.SyncAll(ctx, c.TimeRange())
}

// OnReconnect re-runs the online path after connectivity returns.
func (c *Coordinator) OnReconnect(ctx context.Context) []Result {
	logger.Info("connectivity restored, refreshing all metrics")
	return c.SyncCurrent(ctx)
}

// OnTimeRangeChange replaces the active range and re-syncs everything.
func (c *Coordinator) OnTimeRangeChange(ctx context.Context, newRange models.TimeRange) []Result {
	return c.SyncAll(ctx, newRange)
}

// syncOne resolves a single metric: live fetch with write-through when
// online, cache fallback when offline or the fetch fails, explicit
// error when neither can serve.
func (c *Coordinator) syncOne(ctx context.Context, metric models.Metric, timeRange models.TimeRange, gen uint64) Result {
	result := Result{
		Metric:     metric,
		TimeRange:  timeRange,
		Generation: gen,
	}
	key := metric.CacheKey(timeRange)

	if c.status == nil || c.status.Online() {
		payload, err := c.fetcher.FetchMetric(ctx, metric, timeRange)
		if err == nil {
			// Write-through. A cache write failure degrades future
			// offline fallback but must not fail a successful fetch.
			if cacheErr := c.cache.Set(ctx, key, payload); cacheErr != nil {
				logger.Error("cache write-through failed", "key", key, "error", cacheErr)
			}
			result.Data = payload
			result.Source = SourceLive
			return result
		}
		logger.Warn("metric fetch failed, trying cache", "metric", metric.String(), "error", err)
	}

	entry, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		logger.Error("cache read failed", "key", key, "error", err)
	}
	if ok {
		result.Data = entry.Value
		result.Source = SourceCache
		result.CachedAt = entry.WrittenAt
		return result
	}

	result.Source = SourceNone
	result.Err = ErrNoOfflineData
	return result
}

func (c *Coordinator) sendEvent(event Event) {
	select {
	case c.eventChan <- event:
	default:
		// Channel full, drop. SyncAll return values stay complete.
	}
}
