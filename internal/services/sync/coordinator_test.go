package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	stdsync "sync"
	"testing"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/cache"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/models"
)

// fakeFetcher serves canned payloads or errors per metric and counts calls.
type fakeFetcher struct {
	mu       stdsync.Mutex
	payloads map[models.Metric]json.RawMessage
	failures map[models.Metric]error
	calls    int
}

func (f *fakeFetcher) FetchMetric(ctx context.Context, metric models.Metric, timeRange models.TimeRange) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.failures[metric]; ok {
		return nil, err
	}
	if payload, ok := f.payloads[metric]; ok {
		return payload, nil
	}
	return json.RawMessage(fmt.Sprintf(`{"metric":%q,"range":%q}`, metric, timeRange.Param())), nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeStatus is a settable StatusSource.
type fakeStatus struct {
	mu     stdsync.Mutex
	online bool
}

func (s *fakeStatus) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

func (s *fakeStatus) set(online bool) {
	s.mu.Lock()
	s.online = online
	s.mu.Unlock()
}

func newTestCache(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.New(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func resultFor(t *testing.T, results []Result, metric models.Metric) Result {
	t.Helper()
	for _, r := range results {
		if r.Metric == metric {
			return r
		}
	}
	t.Fatalf("no result for metric %s", metric)
	return Result{}
}

func TestSyncAllOnlinePopulatesStateAndCache(t *testing.T) {
	for _, timeRange := range []models.TimeRange{
		models.TimeRangeDay, models.TimeRangeWeek, models.TimeRangeMonth, models.TimeRangeYear,
	} {
		t.Run(timeRange.Param(), func(t *testing.T) {
			fetcher := &fakeFetcher{}
			store := newTestCache(t)
			status := &fakeStatus{online: true}
			coord := New(fetcher, store, status, timeRange, DefaultConfig())

			results := coord.SyncAll(context.Background(), timeRange)

			if len(results) != len(models.AllMetrics()) {
				t.Fatalf("got %d results, want %d", len(results), len(models.AllMetrics()))
			}
			for _, r := range results {
				if r.Err != nil {
					t.Errorf("%s: unexpected error: %v", r.Metric, r.Err)
				}
				if r.Source != SourceLive {
					t.Errorf("%s: source = %d, want live", r.Metric, r.Source)
				}
				if len(r.Data) == 0 {
					t.Errorf("%s: data not set", r.Metric)
				}
			}

			// One cache entry per metric, keyed metric_range.
			for _, m := range models.AllMetrics() {
				_, ok, err := store.Get(context.Background(), m.CacheKey(timeRange))
				if err != nil {
					t.Fatalf("cache read failed: %v", err)
				}
				if !ok {
					t.Errorf("missing cache entry for %s", m.CacheKey(timeRange))
				}
			}
		})
	}
}

func TestSyncAllOfflineServesCache(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := newTestCache(t)
	status := &fakeStatus{online: false}
	coord := New(fetcher, store, status, models.TimeRangeWeek, DefaultConfig())

	cached := json.RawMessage(`{"totalQueries": 99}`)
	key := models.MetricUsageStats.CacheKey(models.TimeRangeWeek)
	if err := store.Set(context.Background(), key, cached); err != nil {
		t.Fatalf("failed to pre-populate cache: %v", err)
	}

	results := coord.SyncAll(context.Background(), models.TimeRangeWeek)

	r := resultFor(t, results, models.MetricUsageStats)
	if r.Err != nil {
		t.Errorf("usageStats should come from cache without error, got: %v", r.Err)
	}
	if r.Source != SourceCache {
		t.Errorf("usageStats source = %d, want cache", r.Source)
	}
	if string(r.Data) != string(cached) {
		t.Errorf("usageStats data = %s, want cached value", r.Data)
	}
	if r.CachedAt.IsZero() {
		t.Error("cache fallback should carry the write timestamp")
	}

	if fetcher.callCount() != 0 {
		t.Errorf("offline sync should not hit the network, got %d calls", fetcher.callCount())
	}
}

func TestSyncAllOfflineCacheMissIsIsolatedError(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := newTestCache(t)
	status := &fakeStatus{online: false}
	coord := New(fetcher, store, status, models.TimeRangeWeek, DefaultConfig())

	// Only usageStats is warm.
	key := models.MetricUsageStats.CacheKey(models.TimeRangeWeek)
	if err := store.Set(context.Background(), key, json.RawMessage(`{}`)); err != nil {
		t.Fatalf("failed to pre-populate cache: %v", err)
	}

	results := coord.SyncAll(context.Background(), models.TimeRangeWeek)

	for _, r := range results {
		if r.Metric == models.MetricUsageStats {
			if r.Err != nil {
				t.Errorf("warm metric should not error: %v", r.Err)
			}
			continue
		}
		if !errors.Is(r.Err, ErrNoOfflineData) {
			t.Errorf("%s: err = %v, want ErrNoOfflineData", r.Metric, r.Err)
		}
		if r.Data != nil {
			t.Errorf("%s: data should be nil on cache miss", r.Metric)
		}
		if r.Err != nil && r.Err.Error() == "" {
			t.Errorf("%s: error string must be non-empty", r.Metric)
		}
	}
}

func TestSingleMetricFailureIsIsolated(t *testing.T) {
	fetcher := &fakeFetcher{
		failures: map[models.Metric]error{
			models.MetricTopDocuments: errors.New("network error"),
		},
	}
	store := newTestCache(t)
	status := &fakeStatus{online: true}
	coord := New(fetcher, store, status, models.TimeRangeMonth, DefaultConfig())

	results := coord.SyncAll(context.Background(), models.TimeRangeMonth)

	var failed, succeeded int
	for _, r := range results {
		if r.Metric == models.MetricTopDocuments {
			if r.Err == nil {
				t.Error("topDocuments should be in error state")
			}
			failed++
			continue
		}
		if r.Err != nil {
			t.Errorf("%s should have succeeded: %v", r.Metric, r.Err)
		}
		succeeded++
	}
	if failed != 1 || succeeded != 4 {
		t.Errorf("failed=%d succeeded=%d, want 1/4", failed, succeeded)
	}
}

func TestFetchFailureFallsBackToCache(t *testing.T) {
	fetcher := &fakeFetcher{
		failures: map[models.Metric]error{
			models.MetricActivityLog: errors.New("timeout"),
		},
	}
	store := newTestCache(t)
	status := &fakeStatus{online: true}
	coord := New(fetcher, store, status, models.TimeRangeDay, DefaultConfig())

	cached := json.RawMessage(`[{"action":"upload"}]`)
	key := models.MetricActivityLog.CacheKey(models.TimeRangeDay)
	if err := store.Set(context.Background(), key, cached); err != nil {
		t.Fatalf("failed to pre-populate cache: %v", err)
	}

	results := coord.SyncAll(context.Background(), models.TimeRangeDay)

	r := resultFor(t, results, models.MetricActivityLog)
	if r.Err != nil {
		t.Errorf("failed fetch with warm cache should fall back cleanly, got: %v", r.Err)
	}
	if r.Source != SourceCache {
		t.Errorf("source = %d, want cache", r.Source)
	}
	if string(r.Data) != string(cached) {
		t.Errorf("data = %s, want cached value", r.Data)
	}
}

func TestOnReconnectRepopulatesFromNetwork(t *testing.T) {
	fetcher := &fakeFetcher{
		payloads: map[models.Metric]json.RawMessage{
			models.MetricUsageStats: json.RawMessage(`{"totalQueries": 500}`),
		},
	}
	store := newTestCache(t)
	status := &fakeStatus{online: false}
	coord := New(fetcher, store, status, models.TimeRangeWeek, DefaultConfig())

	stale := json.RawMessage(`{"totalQueries": 100}`)
	key := models.MetricUsageStats.CacheKey(models.TimeRangeWeek)
	if err := store.Set(context.Background(), key, stale); err != nil {
		t.Fatalf("failed to pre-populate cache: %v", err)
	}

	// Offline pass serves stale data.
	offline := coord.SyncAll(context.Background(), models.TimeRangeWeek)
	if r := resultFor(t, offline, models.MetricUsageStats); string(r.Data) != string(stale) {
		t.Fatalf("offline pass should serve cached value, got %s", r.Data)
	}

	status.set(true)
	fresh := coord.OnReconnect(context.Background())

	r := resultFor(t, fresh, models.MetricUsageStats)
	if r.Source != SourceLive {
		t.Errorf("reconnect should serve live data, source = %d", r.Source)
	}
	if string(r.Data) != `{"totalQueries": 500}` {
		t.Errorf("reconnect data = %s, want fresh payload", r.Data)
	}

	// Cache entries survive and are refreshed, not deleted.
	entry, ok, err := store.Get(context.Background(), key)
	if err != nil || !ok {
		t.Fatalf("cache entry missing after reconnect: ok=%v err=%v", ok, err)
	}
	if string(entry.Value) != `{"totalQueries": 500}` {
		t.Errorf("cache should hold the refreshed value, got %s", entry.Value)
	}
}

func TestSyncAllIsIdempotent(t *testing.T) {
	fetcher := &fakeFetcher{
		payloads: map[models.Metric]json.RawMessage{
			models.MetricQueryDistribution: json.RawMessage(`[{"category":"legal","count":3}]`),
		},
	}
	store := newTestCache(t)
	status := &fakeStatus{online: true}
	coord := New(fetcher, store, status, models.TimeRangeYear, DefaultConfig())

	first := coord.SyncAll(context.Background(), models.TimeRangeYear)
	second := coord.SyncAll(context.Background(), models.TimeRangeYear)

	for _, m := range models.AllMetrics() {
		a := resultFor(t, first, m)
		b := resultFor(t, second, m)
		if string(a.Data) != string(b.Data) {
			t.Errorf("%s: repeated sync changed data", m)
		}
		if (a.Err == nil) != (b.Err == nil) {
			t.Errorf("%s: repeated sync changed error state", m)
		}
	}

	n, err := store.Len(context.Background())
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != len(models.AllMetrics()) {
		t.Errorf("repeated sync should not add cache rows, Len = %d", n)
	}
}

func TestGenerationsIncrease(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := newTestCache(t)
	status := &fakeStatus{online: true}
	coord := New(fetcher, store, status, models.TimeRangeWeek, DefaultConfig())

	first := coord.SyncAll(context.Background(), models.TimeRangeWeek)
	second := coord.SyncAll(context.Background(), models.TimeRangeDay)

	if first[0].Generation >= second[0].Generation {
		t.Errorf("generations must increase: %d then %d", first[0].Generation, second[0].Generation)
	}
	for _, r := range second {
		if r.Generation != second[0].Generation {
			t.Error("all results of one sync must share a generation")
		}
	}
}

func TestTimeRangeChangeKeepsOtherRangesCached(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := newTestCache(t)
	status := &fakeStatus{online: true}
	coord := New(fetcher, store, status, models.TimeRangeWeek, DefaultConfig())

	coord.SyncAll(context.Background(), models.TimeRangeWeek)
	coord.OnTimeRangeChange(context.Background(), models.TimeRangeMonth)

	if coord.TimeRange() != models.TimeRangeMonth {
		t.Errorf("active range = %s, want Month", coord.TimeRange())
	}

	// Both ranges' entries coexist.
	for _, timeRange := range []models.TimeRange{models.TimeRangeWeek, models.TimeRangeMonth} {
		for _, m := range models.AllMetrics() {
			_, ok, err := store.Get(context.Background(), m.CacheKey(timeRange))
			if err != nil {
				t.Fatalf("cache read failed: %v", err)
			}
			if !ok {
				t.Errorf("missing cache entry %s after range change", m.CacheKey(timeRange))
			}
		}
	}
}

func TestEventsCarryTerminalResultPerMetric(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := newTestCache(t)
	status := &fakeStatus{online: true}
	coord := New(fetcher, store, status, models.TimeRangeWeek, DefaultConfig())

	coord.SyncAll(context.Background(), models.TimeRangeWeek)

	var started, updated, completed int
	for {
		select {
		case ev := <-coord.Events():
			switch ev.Type {
			case EventSyncStarted:
				started++
			case EventMetricUpdated:
				updated++
			case EventSyncCompleted:
				completed++
			}
			continue
		default:
		}
		break
	}

	if started != 1 || completed != 1 {
		t.Errorf("started=%d completed=%d, want 1/1", started, completed)
	}
	if updated != len(models.AllMetrics()) {
		t.Errorf("updated=%d, want one terminal event per metric", updated)
	}
}
