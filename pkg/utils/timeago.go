package utils

import (
	"fmt"
	"time"
)

// TimeAgo renders the age of event relative to now using the largest
// non-zero unit among days, hours and minutes. Clock skew that puts event in
// the future is clamped to zero elapsed time.
func TimeAgo(event, now time.Time) string {
	seconds := int64(now.Sub(event) / time.Second)
	if seconds < 0 {
		seconds = 0
	}

	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return plural(days, "day")
	case hours > 0:
		return plural(hours, "hour")
	case minutes > 0:
		return plural(minutes, "minute")
	default:
		return "Just now"
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
