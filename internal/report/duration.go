package report

import (
	"fmt"
	"time"
)

// HumanizeDuration renders a lead time as a days/hours/minutes breakdown.
// Durations under one minute are shown in seconds; above that the seconds
// component is dropped and the minutes component is always present, so
// 25h becomes "1d 1h 0m".
func HumanizeDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
