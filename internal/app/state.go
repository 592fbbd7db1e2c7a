// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/models"
	syncsvc "github.com/ATAiriam/advancedrag-dashboard-tui/internal/services/sync"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// SyncStatus is the per-metric lifecycle state.
type SyncStatus int

const (
	// StatusIdle means no sync has touched the metric yet.
	StatusIdle SyncStatus = iota
	// StatusLoading means a sync is in flight for the metric.
	StatusLoading
	// StatusSuccess means the metric holds usable data.
	StatusSuccess
	// StatusError means the last sync failed with no fallback.
	StatusError
)

// String returns the string representation of a SyncStatus.
func (s SyncStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// SyncState holds one metric's view state.
type SyncState struct {
	Status    SyncStatus
	Data      json.RawMessage
	Error     string
	FromCache bool
	CachedAt  time.Time
	UpdatedAt time.Time

	// generation of the last applied result; stale results are dropped.
	generation uint64
}

// State is the shared application state container. It is created once
// with a defined initial value and injected into everything that needs
// read/write access.
type State struct {
	mu sync.RWMutex

	metrics      map[models.Metric]SyncState
	timeRange    models.TimeRange
	isRefreshing bool
	online       bool
	lastUpdated  time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState returns the initial application state.
func NewState(initialRange models.TimeRange) *State {
	s := &State{
		metrics:       make(map[models.Metric]SyncState, len(models.AllMetrics())),
		timeRange:     initialRange,
		online:        true,
		notifications: make([]Notification, 0),
	}
	for _, m := range models.AllMetrics() {
		s.metrics[m] = SyncState{Status: StatusIdle}
	}
	return s
}

// Reset returns the state to its initial value, keeping the active
// time range.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range models.AllMetrics() {
		s.metrics[m] = SyncState{Status: StatusIdle}
	}
	s.isRefreshing = false
	s.lastUpdated = time.Time{}
	s.notifications = s.notifications[:0]
}

// MarkLoading flips every metric to loading for the given sync
// generation. Stale generations are ignored.
func (s *State) MarkLoading(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range models.AllMetrics() {
		st := s.metrics[m]
		if generation < st.generation {
			continue
		}
		st.Status = StatusLoading
		st.generation = generation
		s.metrics[m] = st
	}
}

// ApplyResult folds one terminal sync result into the state. Results
// tagged with a generation older than the newest applied one for that
// metric are discarded, so a slow stale fetch can never overwrite a
// newer sync's data.
func (s *State) ApplyResult(result syncsvc.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.metrics[result.Metric]
	if result.Generation < st.generation {
		return false
	}

	st.generation = result.Generation
	st.UpdatedAt = time.Now()

	if result.Err != nil {
		st.Status = StatusError
		st.Error = result.Err.Error()
		st.FromCache = false
		// Data is left as-is: a failed refresh keeps whatever was
		// last shown.
	} else {
		st.Status = StatusSuccess
		st.Error = ""
		st.Data = result.Data
		st.FromCache = result.Source == syncsvc.SourceCache
		st.CachedAt = result.CachedAt
	}

	s.metrics[result.Metric] = st
	s.lastUpdated = time.Now()
	return true
}

// Metric returns a copy of one metric's state.
func (s *State) Metric(m models.Metric) SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics[m]
}

// Metrics returns a copy of all metric states.
func (s *State) Metrics() map[models.Metric]SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[models.Metric]SyncState, len(s.metrics))
	for k, v := range s.metrics {
		out[k] = v
	}
	return out
}

// AnyLoading returns true if any metric is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.metrics {
		if st.Status == StatusLoading {
			return true
		}
	}
	return false
}

// TimeRange returns the active time range.
func (s *State) TimeRange() models.TimeRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeRange
}

// SetTimeRange replaces the active time range.
func (s *State) SetTimeRange(r models.TimeRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeRange = r
}

// IsRefreshing reports whether a full refresh is in flight.
func (s *State) IsRefreshing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRefreshing
}

// SetRefreshing sets the global refreshing flag.
func (s *State) SetRefreshing(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isRefreshing = v
}

// IsOnline mirrors the connectivity monitor's last reported status.
func (s *State) IsOnline() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online
}

// SetOnline records the connectivity status.
func (s *State) SetOnline(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = v
}

// LastUpdated returns the last time any metric state changed.
func (s *State) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// Notifications returns a copy of all active notifications.
func (s *State) Notifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}
