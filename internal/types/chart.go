// internal/types/chart.go
package types

import (
	"fmt"
	"strings"
	"time"
)

// TimeRange is a chart window selector.
type TimeRange string

const (
	Range1H  TimeRange = "1H"
	Range6H  TimeRange = "6H"
	Range12H TimeRange = "12H"
	Range1D  TimeRange = "1D"
	Range7D  TimeRange = "7D"
	RangeAll TimeRange = "ALL"

	DefaultRange = Range7D
)

// TimeRanges lists the selectable ranges in display order.
var TimeRanges = []TimeRange{Range1H, Range6H, Range12H, Range1D, Range7D, RangeAll}

// Duration returns the window covered by the range. ALL is capped at 7 days.
func (r TimeRange) Duration() time.Duration {
	switch r {
	case Range1H:
		return time.Hour
	case Range6H:
		return 6 * time.Hour
	case Range12H:
		return 12 * time.Hour
	case Range1D:
		return 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// Next returns the range after r, wrapping around.
func (r TimeRange) Next() TimeRange {
	for i, tr := range TimeRanges {
		if tr == r {
			return TimeRanges[(i+1)%len(TimeRanges)]
		}
	}
	return DefaultRange
}

// ParseTimeRange parses a range label case-insensitively. An empty string
// yields DefaultRange.
func ParseTimeRange(s string) (TimeRange, error) {
	if s == "" {
		return DefaultRange, nil
	}
	r := TimeRange(strings.ToUpper(strings.TrimSpace(s)))
	for _, tr := range TimeRanges {
		if tr == r {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown time range %q", s)
}
