// Package models defines data structures and domain types.
package models

import "fmt"

// Metric identifies one of the five dashboard datasets.
type Metric int

const (
	// MetricUsageStats is the scalar usage summary (queries, storage, files).
	MetricUsageStats Metric = iota
	// MetricCreditConsumption is the credit spend series for charts.
	MetricCreditConsumption
	// MetricQueryDistribution is the query count per category.
	MetricQueryDistribution
	// MetricTopDocuments is the most-queried documents list.
	MetricTopDocuments
	// MetricActivityLog is the recent account activity feed.
	MetricActivityLog
)

// metricCount is the number of defined metrics.
const metricCount = 5

// String returns the wire name of the metric, as used in API paths
// and cache keys.
func (m Metric) String() string {
	switch m {
	case MetricUsageStats:
		return "usageStats"
	case MetricCreditConsumption:
		return "creditConsumption"
	case MetricQueryDistribution:
		return "queryDistribution"
	case MetricTopDocuments:
		return "topDocuments"
	case MetricActivityLog:
		return "activityLog"
	default:
		return "unknown"
	}
}

// DisplayName returns the human-readable metric name for widget titles.
func (m Metric) DisplayName() string {
	switch m {
	case MetricUsageStats:
		return "Usage Stats"
	case MetricCreditConsumption:
		return "Credit Consumption"
	case MetricQueryDistribution:
		return "Query Distribution"
	case MetricTopDocuments:
		return "Top Documents"
	case MetricActivityLog:
		return "Activity Log"
	default:
		return "Unknown"
	}
}

// CacheKey returns the persistent cache key for this metric at the
// given time range, e.g. "usageStats_week".
func (m Metric) CacheKey(r TimeRange) string {
	return m.String() + "_" + r.Param()
}

// AllMetrics returns every defined metric in stable order.
func AllMetrics() []Metric {
	return []Metric{
		MetricUsageStats,
		MetricCreditConsumption,
		MetricQueryDistribution,
		MetricTopDocuments,
		MetricActivityLog,
	}
}

// ParseMetric converts a wire name back into a Metric.
func ParseMetric(s string) (Metric, error) {
	for _, m := range AllMetrics() {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown metric: %q", s)
}
