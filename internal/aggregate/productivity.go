package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/blackwell-systems/codepulse/internal/event"
)

// Productivity score caps. Each component saturates at 10 so the combined
// score stays in [0, 10] no matter how heavy a day was.
const (
	activityScoreDivisor = 100
	changeScoreDivisor   = 1000
	maxComponentScore    = 10
)

// Productivity computes one score per calendar day with activity. The
// score is the mean of three capped components (activity volume, change
// volume, distinct files), rounded to one decimal.
//
// SessionMinutes is the span between the day's first and last event, not
// total active time. Like the summary's active hours, this is a documented
// coarse proxy that must stay formula-compatible.
func Productivity(activities []event.Activity) []ProductivityDay {
	type dayMetrics struct {
		count      int
		changeSize int64
		files      map[string]struct{}
		first      time.Time
		last       time.Time
	}

	days := make(map[string]*dayMetrics)

	for i := range activities {
		a := &activities[i]
		date := dateOf(a.Timestamp)

		d, ok := days[date]
		if !ok {
			d = &dayMetrics{files: make(map[string]struct{}), first: a.Timestamp, last: a.Timestamp}
			days[date] = d
		}
		d.count++
		d.changeSize += a.ChangeSizeOrZero()
		d.files[a.FileName] = struct{}{}
		if a.Timestamp.Before(d.first) {
			d.first = a.Timestamp
		}
		if a.Timestamp.After(d.last) {
			d.last = a.Timestamp
		}
	}

	result := make([]ProductivityDay, 0, len(days))
	for date, d := range days {
		activityScore := math.Min(float64(d.count)/activityScoreDivisor, maxComponentScore)
		changeScore := math.Min(float64(d.changeSize)/changeScoreDivisor, maxComponentScore)
		fileScore := math.Min(float64(len(d.files)), maxComponentScore)

		result = append(result, ProductivityDay{
			Date:           date,
			Score:          round1((activityScore + changeScore + fileScore) / 3),
			ActivityCount:  d.count,
			ChangeSize:     d.changeSize,
			FileCount:      len(d.files),
			SessionMinutes: round(d.last.Sub(d.first).Minutes()),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	return result
}
