package aggregate

import (
	"math"
	"sort"
	"time"
)

// dateOf formats a timestamp as its calendar date, in the timestamp's own
// location.
func dateOf(t time.Time) string {
	return t.Format("2006-01-02")
}

// round matches the rounding used throughout: half away from zero.
func round(x float64) int {
	return int(math.Round(x))
}

// round1 rounds to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func sortTypeCounts(counts []TypeCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Type < counts[j].Type
	})
}

func sortDailySummaries(days []DailySummary) {
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
}
