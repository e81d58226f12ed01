package sales

import (
	"fmt"
	"time"
)

// Window computes the half-open reporting window [start, end) for a period
// selector relative to a reference instant:
//
//	daily   - midnight of the reference day to midnight of the next day
//	weekly  - most recent Sunday midnight to 7 days later
//	monthly - first of the reference month to first of the next month
func Window(period string, ref time.Time) (time.Time, time.Time, error) {
	midnight := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())

	switch period {
	case "daily":
		return midnight, midnight.AddDate(0, 0, 1), nil
	case "weekly":
		start := midnight.AddDate(0, 0, -int(ref.Weekday()))
		return start, start.AddDate(0, 0, 7), nil
	case "monthly":
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return start, start.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown period %q", period)
	}
}
