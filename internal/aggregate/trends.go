package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/blackwell-systems/codepulse/internal/event"
)

// Interval selects the bucketing granularity of a trend series.
type Interval string

// The supported trend intervals.
const (
	IntervalDay   Interval = "day"
	IntervalWeek  Interval = "week"
	IntervalMonth Interval = "month"
)

// Valid reports whether iv is a recognized interval.
func (iv Interval) Valid() bool {
	switch iv {
	case IntervalDay, IntervalWeek, IntervalMonth:
		return true
	}
	return false
}

// Trends buckets activities by a repeating time interval, summing counts
// and change sizes and counting distinct files and languages per bucket.
// Buckets are sorted ascending by label; labels are YYYY-MM-DD for days,
// YYYY-Www (ISO week) for weeks, and YYYY-MM for months.
func Trends(activities []event.Activity, interval Interval) []TrendPoint {
	type bucket struct {
		count      int
		changeSize int64
		files      map[string]struct{}
		languages  map[string]struct{}
	}

	buckets := make(map[string]*bucket)

	for i := range activities {
		a := &activities[i]
		label := intervalLabel(a.Timestamp, interval)

		b, ok := buckets[label]
		if !ok {
			b = &bucket{files: make(map[string]struct{}), languages: make(map[string]struct{})}
			buckets[label] = b
		}
		b.count++
		b.changeSize += a.ChangeSizeOrZero()
		b.files[a.FileName] = struct{}{}
		if a.Language != "" {
			b.languages[a.Language] = struct{}{}
		}
	}

	result := make([]TrendPoint, 0, len(buckets))
	for label, b := range buckets {
		result = append(result, TrendPoint{
			Interval:      label,
			Count:         b.count,
			ChangeSize:    b.changeSize,
			FileCount:     len(b.files),
			LanguageCount: len(b.languages),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Interval < result[j].Interval
	})

	return result
}

func intervalLabel(t time.Time, interval Interval) string {
	switch interval {
	case IntervalWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case IntervalMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}
