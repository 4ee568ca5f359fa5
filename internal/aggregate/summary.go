package aggregate

import (
	"fmt"
	"math"

	"github.com/blackwell-systems/codepulse/internal/event"
)

// Summarize computes overall counts for a slice of activities. Absent
// changeSize counts as 0; languages are only counted when present.
//
// ActiveHours is a coarse proxy, not wall-clock session time: one "hour"
// per 60 events, never less than 1 when there is any activity at all.
// Downstream consumers depend on this exact formula.
func Summarize(activities []event.Activity) Summary {
	s := Summary{}

	files := make(map[string]struct{})
	languages := make(map[string]struct{})

	for i := range activities {
		a := &activities[i]
		s.TotalActivities++
		if a.Type == event.TypeEdit {
			s.EditActivities++
		}
		s.TotalChangeSize += a.ChangeSizeOrZero()
		files[a.FileName] = struct{}{}
		if a.Language != "" {
			languages[a.Language] = struct{}{}
		}
	}

	s.UniqueFiles = len(files)
	s.UniqueLanguages = len(languages)

	if s.TotalActivities > 0 {
		hours := int(math.Round(float64(s.TotalActivities) / 60))
		if hours < 1 {
			hours = 1
		}
		s.ActiveHours = hours
	}
	s.ActiveTime = fmt.Sprintf("%dh 0m", s.ActiveHours)

	return s
}

// SummarizeDaily groups activities by calendar date and activity type,
// producing one per-day rollup per active date, sorted by date ascending.
func SummarizeDaily(activities []event.Activity) []DailySummary {
	type dayKey struct {
		date string
		typ  string
	}

	counts := make(map[dayKey]int)
	for i := range activities {
		a := &activities[i]
		counts[dayKey{dateOf(a.Timestamp), string(a.Type)}]++
	}

	byDate := make(map[string]*DailySummary)
	for k, n := range counts {
		d, ok := byDate[k.date]
		if !ok {
			d = &DailySummary{Date: k.date}
			byDate[k.date] = d
		}
		d.Activities = append(d.Activities, TypeCount{Type: k.typ, Count: n})
		d.TotalCount += n
	}

	days := make([]DailySummary, 0, len(byDate))
	for _, d := range byDate {
		sortTypeCounts(d.Activities)
		days = append(days, *d)
	}
	sortDailySummaries(days)
	return days
}
