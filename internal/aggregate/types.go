// Package aggregate turns a time-bounded slice of the activity log into
// derived analytics: summaries, breakdowns, distributions, productivity
// scores, streaks, and trends. Every function is pure with respect to its
// input slice and is recomputed on each call; nothing here is persisted.
package aggregate

// Summary holds overall counts for a time range.
type Summary struct {
	TotalActivities int    `json:"totalActivities"`
	EditActivities  int    `json:"editActivities"`
	TotalChangeSize int64  `json:"totalChangeSize"`
	UniqueFiles     int    `json:"uniqueFiles"`
	UniqueLanguages int    `json:"uniqueLanguages"`
	ActiveHours     int    `json:"activeHours"`
	ActiveTime      string `json:"activeTime"`
}

// Breakdown is one group of a keyed aggregation (language, project, or
// file). Percentage and TimeSpent are normalized against the total event
// count of all groups; TimeSpent uses a fixed 60-minute window, not actual
// wall-clock time.
type Breakdown struct {
	Key        string `json:"name"`
	Count      int    `json:"count"`
	ChangeSize int64  `json:"changeSize"`
	FileCount  int    `json:"fileCount"`
	Percentage int    `json:"percentage"`
	TimeSpent  int    `json:"timeSpent"`
}

// FileActivity is one file's activity rollup, carrying the descriptive
// context the breakdown shape drops.
type FileActivity struct {
	FileName     string `json:"fileName"`
	FilePath     string `json:"filePath,omitempty"`
	Language     string `json:"language"`
	Project      string `json:"project"`
	Count        int    `json:"count"`
	EditCount    int    `json:"edits"`
	ChangeSize   int64  `json:"changeSize"`
	LastModified string `json:"lastModified"`
	TimeSpent    int    `json:"timeSpent"`
}

// HourBucket is one hour of the 24-entry hourly distribution.
type HourBucket struct {
	Hour       int   `json:"hour"`
	Count      int   `json:"count"`
	ChangeSize int64 `json:"changeSize"`
}

// WeekdayBucket is one day of the 7-entry weekday distribution.
// DayOfWeek runs 1..7 with 1=Sunday, matching a Sunday-first week.
type WeekdayBucket struct {
	DayOfWeek  int    `json:"dayOfWeek"`
	DayName    string `json:"dayName"`
	Count      int    `json:"count"`
	ChangeSize int64  `json:"changeSize"`
}

// ProductivityDay is one calendar day's productivity score.
type ProductivityDay struct {
	Date           string  `json:"date"`
	Score          float64 `json:"score"`
	ActivityCount  int     `json:"activityCount"`
	ChangeSize     int64   `json:"changeSize"`
	FileCount      int     `json:"fileCount"`
	SessionMinutes int     `json:"sessionMinutes"`
}

// StreakResult holds consecutive-day activity statistics over the trailing
// year, plus a per-day count calendar for heatmap rendering.
type StreakResult struct {
	CurrentStreak   int            `json:"currentStreak"`
	LongestStreak   int            `json:"longestStreak"`
	TotalActiveDays int            `json:"totalActiveDays"`
	Calendar        map[string]int `json:"calendar"`
}

// TrendPoint is one interval bucket of a trend series.
type TrendPoint struct {
	Interval      string `json:"interval"`
	Count         int    `json:"count"`
	ChangeSize    int64  `json:"changeSize"`
	FileCount     int    `json:"fileCount"`
	LanguageCount int    `json:"languageCount"`
}

// TypeCount is one activity type's count within a daily summary.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// DailySummary is one day's per-type activity rollup.
type DailySummary struct {
	Date       string      `json:"date"`
	Activities []TypeCount `json:"activities"`
	TotalCount int         `json:"totalCount"`
}
