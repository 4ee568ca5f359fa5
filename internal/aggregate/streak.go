package aggregate

import (
	"sort"
	"time"

	"github.com/blackwell-systems/codepulse/internal/event"
)

// Streaks computes consecutive-day statistics from activities, anchored at
// now. The caller supplies a slice already bounded to the trailing 365
// days; dates outside that window would extend streaks incorrectly.
//
// The current streak starts at today when today has activity, otherwise at
// yesterday, and walks backward until the first inactive date. If neither
// today nor yesterday is active the current streak is 0.
func Streaks(activities []event.Activity, now time.Time) StreakResult {
	calendar := make(map[string]int)
	for i := range activities {
		calendar[dateOf(activities[i].Timestamp)]++
	}

	result := StreakResult{
		TotalActiveDays: len(calendar),
		Calendar:        calendar,
	}

	if len(calendar) == 0 {
		return result
	}

	// Current streak: anchor at today or yesterday, then walk backward.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	anchor := today
	if _, active := calendar[dateOf(today)]; !active {
		anchor = today.AddDate(0, 0, -1)
	}
	for {
		if _, active := calendar[dateOf(anchor)]; !active {
			break
		}
		result.CurrentStreak++
		anchor = anchor.AddDate(0, 0, -1)
	}

	// Longest streak: walk active dates ascending, extending the run while
	// successive dates are exactly one day apart.
	dates := make([]string, 0, len(calendar))
	for date := range calendar {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	run := 1
	longest := 1
	for i := 1; i < len(dates); i++ {
		prev, _ := time.Parse("2006-01-02", dates[i-1])
		curr, _ := time.Parse("2006-01-02", dates[i])
		if curr.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	result.LongestStreak = longest

	return result
}
