package app

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/models"
	syncsvc "github.com/ATAiriam/advancedrag-dashboard-tui/internal/services/sync"
)

func liveResult(metric models.Metric, gen uint64, payload string) syncsvc.Result {
	return syncsvc.Result{
		Metric:     metric,
		TimeRange:  models.TimeRangeWeek,
		Generation: gen,
		Data:       json.RawMessage(payload),
		Source:     syncsvc.SourceLive,
	}
}

func TestNewStateInitialValues(t *testing.T) {
	s := NewState(models.TimeRangeMonth)

	if s.TimeRange() != models.TimeRangeMonth {
		t.Errorf("TimeRange = %s, want Month", s.TimeRange())
	}
	if !s.IsOnline() {
		t.Error("state should start online")
	}
	if s.IsRefreshing() {
		t.Error("state should not start refreshing")
	}
	for _, m := range models.AllMetrics() {
		if st := s.Metric(m); st.Status != StatusIdle {
			t.Errorf("%s starts %s, want idle", m, st.Status)
		}
	}
}

func TestApplyResultSuccess(t *testing.T) {
	s := NewState(models.TimeRangeWeek)

	if !s.ApplyResult(liveResult(models.MetricUsageStats, 1, `{"totalQueries":9}`)) {
		t.Fatal("fresh result should apply")
	}

	st := s.Metric(models.MetricUsageStats)
	if st.Status != StatusSuccess {
		t.Errorf("status = %s, want success", st.Status)
	}
	if string(st.Data) != `{"totalQueries":9}` {
		t.Errorf("data = %s", st.Data)
	}
	if st.FromCache {
		t.Error("live result should not be marked cached")
	}
}

func TestApplyResultDropsStaleGeneration(t *testing.T) {
	s := NewState(models.TimeRangeWeek)

	s.ApplyResult(liveResult(models.MetricUsageStats, 5, `{"totalQueries":50}`))

	// A straggler from an older sync arrives late.
	if s.ApplyResult(liveResult(models.MetricUsageStats, 3, `{"totalQueries":30}`)) {
		t.Error("stale result should be rejected")
	}

	st := s.Metric(models.MetricUsageStats)
	if string(st.Data) != `{"totalQueries":50}` {
		t.Errorf("stale result overwrote data: %s", st.Data)
	}
}

func TestApplyResultErrorKeepsData(t *testing.T) {
	s := NewState(models.TimeRangeWeek)

	s.ApplyResult(liveResult(models.MetricActivityLog, 1, `{"entries":[]}`))
	s.ApplyResult(syncsvc.Result{
		Metric:     models.MetricActivityLog,
		Generation: 2,
		Source:     syncsvc.SourceNone,
		Err:        errors.New("boom"),
	})

	st := s.Metric(models.MetricActivityLog)
	if st.Status != StatusError {
		t.Errorf("status = %s, want error", st.Status)
	}
	if st.Error != "boom" {
		t.Errorf("error = %q", st.Error)
	}
	if string(st.Data) != `{"entries":[]}` {
		t.Error("failed refresh should keep the previous data")
	}
}

func TestApplyResultCachedSource(t *testing.T) {
	s := NewState(models.TimeRangeWeek)
	written := time.Now().Add(-time.Hour)

	s.ApplyResult(syncsvc.Result{
		Metric:     models.MetricTopDocuments,
		Generation: 1,
		Data:       json.RawMessage(`{"documents":[]}`),
		Source:     syncsvc.SourceCache,
		CachedAt:   written,
	})

	st := s.Metric(models.MetricTopDocuments)
	if !st.FromCache {
		t.Error("cache fallback should be flagged")
	}
	if !st.CachedAt.Equal(written) {
		t.Errorf("CachedAt = %v, want %v", st.CachedAt, written)
	}
}

func TestMarkLoadingPairsWithResults(t *testing.T) {
	s := NewState(models.TimeRangeWeek)

	s.MarkLoading(1)
	if !s.AnyLoading() {
		t.Fatal("all metrics should be loading")
	}

	for _, m := range models.AllMetrics() {
		s.ApplyResult(liveResult(m, 1, `{}`))
	}
	if s.AnyLoading() {
		t.Error("every metric got a result, nothing should still be loading")
	}
}

func TestMarkLoadingIgnoresStaleGeneration(t *testing.T) {
	s := NewState(models.TimeRangeWeek)

	s.ApplyResult(liveResult(models.MetricUsageStats, 4, `{"totalQueries":4}`))
	s.MarkLoading(2)

	if st := s.Metric(models.MetricUsageStats); st.Status == StatusLoading {
		t.Error("stale MarkLoading should not touch a newer metric state")
	}
}

func TestReset(t *testing.T) {
	s := NewState(models.TimeRangeYear)
	s.ApplyResult(liveResult(models.MetricUsageStats, 1, `{}`))
	s.SetRefreshing(true)
	s.AddNotification(NotificationInfo, "hello", time.Minute)

	s.Reset()

	if s.TimeRange() != models.TimeRangeYear {
		t.Error("Reset should keep the time range")
	}
	if s.IsRefreshing() {
		t.Error("Reset should clear the refreshing flag")
	}
	if st := s.Metric(models.MetricUsageStats); st.Status != StatusIdle || st.Data != nil {
		t.Error("Reset should clear metric states")
	}
	if len(s.Notifications()) != 0 {
		t.Error("Reset should clear notifications")
	}
}

func TestNotificationLifecycle(t *testing.T) {
	s := NewState(models.TimeRangeWeek)

	id := s.AddNotification(NotificationSuccess, "done", time.Minute)
	if len(s.Notifications()) != 1 {
		t.Fatal("notification not added")
	}

	s.RemoveNotification(id)
	if len(s.Notifications()) != 0 {
		t.Error("notification not removed")
	}
}

func TestNotificationCap(t *testing.T) {
	s := NewState(models.TimeRangeWeek)

	for i := 0; i < 15; i++ {
		s.AddNotification(NotificationInfo, "n", time.Minute)
	}
	if got := len(s.Notifications()); got > 10 {
		t.Errorf("notification count = %d, want at most 10", got)
	}
}

func TestExpiredNotificationsFiltered(t *testing.T) {
	s := NewState(models.TimeRangeWeek)

	s.AddNotification(NotificationInfo, "fast", time.Nanosecond)
	time.Sleep(5 * time.Millisecond)
	s.ClearExpiredNotifications()

	if len(s.Notifications()) != 0 {
		t.Error("expired notification should be cleared")
	}
}
