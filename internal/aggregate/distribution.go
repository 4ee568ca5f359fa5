package aggregate

import (
	"github.com/blackwell-systems/codepulse/internal/event"
)

var dayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// HourlyDistribution buckets activities by hour of day. The result always
// has exactly 24 entries ordered by hour, with inactive hours zero-filled.
func HourlyDistribution(activities []event.Activity) []HourBucket {
	buckets := make([]HourBucket, 24)
	for h := range buckets {
		buckets[h].Hour = h
	}

	for i := range activities {
		a := &activities[i]
		h := a.Timestamp.Hour()
		buckets[h].Count++
		buckets[h].ChangeSize += a.ChangeSizeOrZero()
	}

	return buckets
}

// WeekdayDistribution buckets activities by day of week. The result always
// has exactly 7 entries ordered Sunday (1) through Saturday (7), with
// inactive days zero-filled.
func WeekdayDistribution(activities []event.Activity) []WeekdayBucket {
	buckets := make([]WeekdayBucket, 7)
	for d := range buckets {
		buckets[d].DayOfWeek = d + 1
		buckets[d].DayName = dayNames[d]
	}

	for i := range activities {
		a := &activities[i]
		d := int(a.Timestamp.Weekday()) // Sunday == 0
		buckets[d].Count++
		buckets[d].ChangeSize += a.ChangeSizeOrZero()
	}

	return buckets
}
