package models

import "fmt"

// TimeRange represents the reporting window that parameterizes every
// metric query.
type TimeRange int

const (
	// TimeRangeDay shows data from the last 24 hours.
	TimeRangeDay TimeRange = iota
	// TimeRangeWeek shows data from the last 7 days.
	TimeRangeWeek
	// TimeRangeMonth shows data from the last 30 days.
	TimeRangeMonth
	// TimeRangeYear shows data from the last 365 days.
	TimeRangeYear
)

// timeRangeCount is the number of defined time ranges.
const timeRangeCount = 4

// String returns the display name for a time range.
func (t TimeRange) String() string {
	switch t {
	case TimeRangeDay:
		return "Day"
	case TimeRangeWeek:
		return "Week"
	case TimeRangeMonth:
		return "Month"
	case TimeRangeYear:
		return "Year"
	default:
		return "Unknown"
	}
}

// Param returns the query-parameter value sent to the API and used in
// cache keys.
func (t TimeRange) Param() string {
	switch t {
	case TimeRangeDay:
		return "day"
	case TimeRangeWeek:
		return "week"
	case TimeRangeMonth:
		return "month"
	case TimeRangeYear:
		return "year"
	default:
		return "week"
	}
}

// Days returns the number of days covered by the range.
func (t TimeRange) Days() int {
	switch t {
	case TimeRangeDay:
		return 1
	case TimeRangeWeek:
		return 7
	case TimeRangeMonth:
		return 30
	case TimeRangeYear:
		return 365
	default:
		return 7
	}
}

// Next cycles to the next time range.
func (t TimeRange) Next() TimeRange {
	return (t + 1) % timeRangeCount
}

// ParseTimeRange converts a parameter value back into a TimeRange.
func ParseTimeRange(s string) (TimeRange, error) {
	switch s {
	case "day":
		return TimeRangeDay, nil
	case "week":
		return TimeRangeWeek, nil
	case "month":
		return TimeRangeMonth, nil
	case "year":
		return TimeRangeYear, nil
	default:
		return 0, fmt.Errorf("unknown time range: %q", s)
	}
}
