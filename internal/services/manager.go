// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	stdsync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/api"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/cache"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/config"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/connectivity"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/logger"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/models"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/services/session"
	syncsvc "github.com/ATAiriam/advancedrag-dashboard-tui/internal/services/sync"
)

type (
	// MetricUpdatedEvent is emitted when one metric's sync resolves.
	MetricUpdatedEvent struct {
		Result syncsvc.Result
	}

	// SyncStartedEvent is emitted when a full sync begins.
	SyncStartedEvent struct {
		Generation uint64
		TimeRange  models.TimeRange
	}

	// SyncCompletedEvent is emitted when a full sync has resolved every metric.
	SyncCompletedEvent struct {
		Generation uint64
		TimeRange  models.TimeRange
	}

	// ConnectivityEvent is emitted on online/offline transitions.
	ConnectivityEvent struct {
		Online      bool
		Reconnected bool
	}

	// SessionChangedEvent is emitted when the login session changes.
	SessionChangedEvent struct {
		Authenticated bool
		Email         string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (MetricUpdatedEvent) isServiceEvent()  {}
func (SyncStartedEvent) isServiceEvent()    {}
func (SyncCompletedEvent) isServiceEvent()  {}
func (ConnectivityEvent) isServiceEvent()   {}
func (SessionChangedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()          {}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          stdsync.RWMutex
	session     *session.Service
	client      *api.Client
	store       *cache.Store
	monitor     *connectivity.Monitor
	coordinator *syncsvc.Coordinator

	refreshInterval time.Duration
	eventChan       chan ServiceEvent
	stopChan        chan struct{}
	stopOnce        stdsync.Once
	subscribers     []chan<- ServiceEvent
	notify          bool
}

// NewManager creates a new service manager and starts the background
// loops: connectivity probing, event routing, and periodic refresh.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		refreshInterval: cfg.RefreshInterval,
		eventChan:       make(chan ServiceEvent, 100),
		stopChan:        make(chan struct{}),
		notify:          true,
	}

	var err error
	m.session, err = session.New(cfg.SessionPath)
	if err != nil {
		return nil, err
	}

	m.store, err = cache.New(cfg.CacheDBPath)
	if err != nil {
		_ = m.session.Close()
		return nil, err
	}

	m.client = api.NewClient(cfg.APIBaseURL, m.session, cfg.RequestTimeout)

	monitorConfig := connectivity.DefaultConfig()
	monitorConfig.ProbeInterval = cfg.ProbeInterval
	m.monitor = connectivity.New(connectivity.ProberFunc(m.client.Ping), monitorConfig)

	m.coordinator = syncsvc.New(m.client, m.store, m.monitor, cfg.DefaultTimeRange, syncsvc.DefaultConfig())

	go m.routeEvents()
	go m.refreshLoop()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.coordinator.Events():
			m.handleSyncEvent(event)

		case event := <-m.monitor.Events():
			m.handleConnectivityEvent(event)

		case event := <-m.session.Events():
			m.handleSessionEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleSyncEvent(event syncsvc.Event) {
	switch event.Type {
	case syncsvc.EventSyncStarted:
		m.broadcast(SyncStartedEvent{Generation: event.Generation, TimeRange: event.TimeRange})
	case syncsvc.EventMetricUpdated:
		m.broadcast(MetricUpdatedEvent{Result: event.Result})
	case syncsvc.EventSyncCompleted:
		m.broadcast(SyncCompletedEvent{Generation: event.Generation, TimeRange: event.TimeRange})
	}
}

func (m *Manager) handleConnectivityEvent(event connectivity.Event) {
	switch event.Type {
	case connectivity.EventOffline:
		m.broadcast(ConnectivityEvent{Online: false})
		m.sendNotification("AdvancedRAG Dashboard", "Connection lost. Showing cached data.")

	case connectivity.EventReconnected:
		m.broadcast(ConnectivityEvent{Online: true, Reconnected: true})
		m.sendNotification("AdvancedRAG Dashboard", "Back online. Refreshing dashboard.")

		// Re-run the online path with the current range.
		go func() {
			m.coordinator.OnReconnect(context.Background())
		}()

	case connectivity.EventOnline:
		m.broadcast(ConnectivityEvent{Online: true})
	}
}

func (m *Manager) handleSessionEvent(event session.Event) {
	switch event.Type {
	case session.EventSessionLoaded, session.EventSessionChanged:
		m.broadcast(SessionChangedEvent{
			Authenticated: m.session.Authenticated(),
			Email:         m.session.Email(),
		})
	case session.EventError:
		m.broadcast(ErrorEvent{Service: "session", Error: event.Error})
	}
}

// refreshLoop re-syncs all metrics on the configured interval.
func (m *Manager) refreshLoop() {
	if m.refreshInterval <= 0 {
		return
	}

	ticker := time.NewTicker(m.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.coordinator.SyncCurrent(context.Background())
		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) sendNotification(title, body string) {
	m.mu.RLock()
	enabled := m.notify
	m.mu.RUnlock()
	if !enabled {
		return
	}
	if err := beeep.Notify(title, body, ""); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}
}

// SetNotifications toggles desktop notifications.
func (m *Manager) SetNotifications(enabled bool) {
	m.mu.Lock()
	m.notify = enabled
	m.mu.Unlock()
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// SyncAll runs a full sync for the given time range.
func (m *Manager) SyncAll(ctx context.Context, timeRange models.TimeRange) []syncsvc.Result {
	return m.coordinator.SyncAll(ctx, timeRange)
}

// SyncCurrent runs a full sync with the active time range.
func (m *Manager) SyncCurrent(ctx context.Context) []syncsvc.Result {
	return m.coordinator.SyncCurrent(ctx)
}

// ChangeTimeRange replaces the active time range and re-syncs.
func (m *Manager) ChangeTimeRange(ctx context.Context, newRange models.TimeRange) []syncsvc.Result {
	return m.coordinator.OnTimeRangeChange(ctx, newRange)
}

// TimeRange returns the active time range.
func (m *Manager) TimeRange() models.TimeRange {
	return m.coordinator.TimeRange()
}

// Online reports current connectivity.
func (m *Manager) Online() bool {
	return m.monitor.Online()
}

// CheckConnectivityNow forces an immediate connectivity probe.
func (m *Manager) CheckConnectivityNow() {
	m.monitor.CheckNow()
}

// Session returns the session service.
func (m *Manager) Session() *session.Service {
	return m.session
}

// Cache returns the persistent cache for direct access (info tab).
func (m *Manager) Cache() *cache.Store {
	return m.store
}

// Coordinator returns the sync coordinator.
func (m *Manager) Coordinator() *syncsvc.Coordinator {
	return m.coordinator
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	m.monitor.Close()

	if err := m.session.Close(); err != nil {
		errs = append(errs, err)
	}

	if m.store != nil {
		if err := m.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
