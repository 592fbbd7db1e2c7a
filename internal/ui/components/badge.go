package components

import (
	"fmt"
	"time"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/ui/styles"
)

// DataBadge renders a freshness marker for a widget. Live data gets a
// quiet check mark; cached data shows how old the snapshot is so the
// user knows what they are looking at while offline.
func DataBadge(fromCache bool, cachedAt time.Time) string {
	if !fromCache {
		return styles.LiveBadgeStyle.Render("● live")
	}
	if cachedAt.IsZero() {
		return styles.CachedBadgeStyle.Render("◌ cached")
	}
	return styles.CachedBadgeStyle.Render(fmt.Sprintf("◌ cached %s ago", humanAge(time.Since(cachedAt))))
}

// humanAge formats a duration coarsely for badge display.
func humanAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
