// Package connectivity tracks whether the backend is reachable and
// reports online/offline/reconnect transitions.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/logger"
)

// Prober performs a single reachability check. A nil error means online.
type Prober interface {
	Probe(ctx context.Context) error
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context) error

// Probe calls the wrapped function.
func (f ProberFunc) Probe(ctx context.Context) error { return f(ctx) }

// EventType defines the type of connectivity event.
type EventType int

const (
	// EventOnline indicates the backend is reachable.
	EventOnline EventType = iota
	// EventOffline indicates the backend became unreachable.
	EventOffline
	// EventReconnected indicates an offline-to-online transition.
	EventReconnected
)

// String returns the string representation of an EventType.
func (e EventType) String() string {
	switch e {
	case EventOnline:
		return "online"
	case EventOffline:
		return "offline"
	case EventReconnected:
		return "reconnected"
	default:
		return "unknown"
	}
}

// Event is a connectivity transition.
type Event struct {
	Type EventType
	At   time.Time
}

// Config holds configuration for the monitor.
type Config struct {
	// ProbeInterval is how often the backend is probed.
	ProbeInterval time.Duration
	// ProbeTimeout bounds a single probe.
	ProbeTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ProbeInterval: 15 * time.Second,
		ProbeTimeout:  5 * time.Second,
	}
}

// Monitor polls a Prober and publishes transitions.
type Monitor struct {
	prober    Prober
	config    Config
	eventChan chan Event
	stopChan  chan struct{}
	checkChan chan struct{}
	stopOnce  sync.Once

	mu     sync.RWMutex
	online bool
	probed bool
}

// New creates a monitor and starts its polling loop. The monitor
// starts in the online state until the first probe says otherwise.
func New(prober Prober, config Config) *Monitor {
	if config.ProbeInterval <= 0 {
		config = DefaultConfig()
	}
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = 5 * time.Second
	}

	m := &Monitor{
		prober:    prober,
		config:    config,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
		checkChan: make(chan struct{}, 1),
		online:    true,
	}

	go m.pollLoop()

	return m
}

// Events returns the event channel.
func (m *Monitor) Events() <-chan Event {
	return m.eventChan
}

// Online reports the current connectivity status.
func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// CheckNow requests an immediate probe. Used after a failed sync so
// the offline banner does not wait for the next poll tick.
func (m *Monitor) CheckNow() {
	select {
	case m.checkChan <- struct{}{}:
	default:
	}
}

// Close stops the polling loop.
func (m *Monitor) Close() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
}

func (m *Monitor) pollLoop() {
	// Probe immediately so the initial state is real, not assumed.
	m.probe()

	ticker := time.NewTicker(m.config.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.probe()
		case <-m.checkChan:
			m.probe()
		case <-m.stopChan:
			return
		}
	}
}

func (m *Monitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), m.config.ProbeTimeout)
	defer cancel()

	err := m.prober.Probe(ctx)
	nowOnline := err == nil

	m.mu.Lock()
	wasOnline := m.online
	firstProbe := !m.probed
	m.online = nowOnline
	m.probed = true
	m.mu.Unlock()

	switch {
	case firstProbe && !nowOnline:
		logger.Warn("backend unreachable at startup", "error", err)
		m.sendEvent(Event{Type: EventOffline, At: time.Now()})
	case !wasOnline && nowOnline:
		logger.Info("backend reachable again")
		m.sendEvent(Event{Type: EventReconnected, At: time.Now()})
	case wasOnline && !nowOnline:
		logger.Warn("backend became unreachable", "error", err)
		m.sendEvent(Event{Type: EventOffline, At: time.Now()})
	}
}

func (m *Monitor) sendEvent(event Event) {
	select {
	case m.eventChan <- event:
	default:
		// Channel full, drop. Status reads stay accurate via Online().
	}
}
