package app

import (
	"time"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/models"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/services"
	syncsvc "github.com/ATAiriam/advancedrag-dashboard-tui/internal/services/sync"
)

// TickMsg is sent periodically to trigger housekeeping.
type TickMsg struct {
	Time time.Time
}

// RefreshMsg requests a full sync of all metrics.
type RefreshMsg struct{}

// SyncFinishedMsg is sent when a refresh command completes. The
// results are carried for tabs that prefer a snapshot over events.
type SyncFinishedMsg struct {
	Results []syncsvc.Result
}

// TimeRangeChangedMsg requests switching the active time range.
type TimeRangeChangedMsg struct {
	Range models.TimeRange
}

// MetricUpdatedMsg wraps one metric's terminal sync result.
type MetricUpdatedMsg struct {
	Result syncsvc.Result
}

// ConnectivityChangedMsg mirrors the connectivity monitor.
type ConnectivityChangedMsg struct {
	Online      bool
	Reconnected bool
}

// SessionChangedMsg signals a login/logout.
type SessionChangedMsg struct {
	Authenticated bool
	Email         string
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
