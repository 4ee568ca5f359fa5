// Package query exposes aggregation results per user and timeframe. It is
// a stateless façade: every call re-reads the store and recomputes, and
// cross-user access control is the caller's responsibility.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/blackwell-systems/codepulse/internal/aggregate"
	"github.com/blackwell-systems/codepulse/internal/event"
	"github.com/blackwell-systems/codepulse/internal/store"
)

// Timeframe names a relative reporting window.
type Timeframe string

// Recognized timeframes. Custom falls back to a 30-day window.
const (
	TimeframeDay    Timeframe = "day"
	TimeframeWeek   Timeframe = "week"
	TimeframeMonth  Timeframe = "month"
	TimeframeYear   Timeframe = "year"
	TimeframeCustom Timeframe = "custom"
)

// Default lookbacks per endpoint, in days.
const (
	DefaultBreakdownDays    = 30
	DefaultFileDays         = 30
	DefaultHourlyDays       = 30
	DefaultWeekdayDays      = 90
	DefaultProductivityDays = 30
	DefaultTrendDays        = 90
	DefaultSummaryDays      = 7
	StreakDays              = 365
)

// Service resolves timeframes, feeds time-bounded activity slices to the
// aggregation engine, and returns the results.
type Service struct {
	db  *store.DB
	now func() time.Time
}

// New creates a query service backed by db.
func New(db *store.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// NewWithClock creates a query service with a fixed clock, for tests.
func NewWithClock(db *store.DB, now func() time.Time) *Service {
	return &Service{db: db, now: now}
}

// timeframeRange resolves a timeframe to [from, to]. Day means the start
// of today; unrecognized values fall back to day.
func (s *Service) timeframeRange(tf Timeframe) (time.Time, time.Time) {
	now := s.now()
	switch tf {
	case TimeframeWeek:
		return now.AddDate(0, 0, -7), now
	case TimeframeMonth:
		return now.AddDate(0, -1, 0), now
	case TimeframeYear:
		return now.AddDate(-1, 0, 0), now
	case TimeframeCustom:
		return now.AddDate(0, 0, -30), now
	default:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, now
	}
}

// lookback resolves a days parameter to [now-days, now], applying def when
// days is not positive.
func (s *Service) lookback(days, def int) (time.Time, time.Time) {
	if days <= 0 {
		days = def
	}
	now := s.now()
	return now.AddDate(0, 0, -days), now
}

func (s *Service) slice(ctx context.Context, username string, from, to time.Time) ([]event.Activity, error) {
	if _, err := s.db.GetUser(ctx, username); err != nil {
		return nil, err
	}
	return s.db.ActivitiesInRange(ctx, username, from, to)
}

// Summary computes overall statistics for a timeframe (default day).
func (s *Service) Summary(ctx context.Context, username string, tf Timeframe) (aggregate.Summary, error) {
	from, to := s.timeframeRange(tf)
	activities, err := s.slice(ctx, username, from, to)
	if err != nil {
		return aggregate.Summary{}, err
	}
	return aggregate.Summarize(activities), nil
}

// DailySummary computes a per-day, per-type rollup over the last days
// (default 7).
func (s *Service) DailySummary(ctx context.Context, username string, days int) ([]aggregate.DailySummary, error) {
	from, to := s.lookback(days, DefaultSummaryDays)
	activities, err := s.slice(ctx, username, from, to)
	if err != nil {
		return nil, err
	}
	return aggregate.SummarizeDaily(activities), nil
}

// Breakdown groups the last days (default 30) by the given dimension.
func (s *Service) Breakdown(ctx context.Context, username string, kind aggregate.BreakdownKind, days int) ([]aggregate.Breakdown, error) {
	if !kind.Valid() {
		return nil, &event.ValidationError{Fields: map[string]string{
			"kind": fmt.Sprintf("unrecognized breakdown kind %q", kind),
		}}
	}
	from, to := s.lookback(days, DefaultBreakdownDays)
	activities, err := s.slice(ctx, username, from, to)
	if err != nil {
		return nil, err
	}
	return aggregate.BreakdownBy(activities, kind), nil
}

// Files computes per-file rollups over the last days (default 30), capped
// at limit entries (default 50).
func (s *Service) Files(ctx context.Context, username string, days, limit int) ([]aggregate.FileActivity, error) {
	from, to := s.lookback(days, DefaultFileDays)
	activities, err := s.slice(ctx, username, from, to)
	if err != nil {
		return nil, err
	}
	return aggregate.Files(activities, limit), nil
}

// Hourly computes the 24-entry hour-of-day distribution over the last days
// (default 30).
func (s *Service) Hourly(ctx context.Context, username string, days int) ([]aggregate.HourBucket, error) {
	from, to := s.lookback(days, DefaultHourlyDays)
	activities, err := s.slice(ctx, username, from, to)
	if err != nil {
		return nil, err
	}
	return aggregate.HourlyDistribution(activities), nil
}

// Weekday computes the 7-entry day-of-week distribution over the last days
// (default 90).
func (s *Service) Weekday(ctx context.Context, username string, days int) ([]aggregate.WeekdayBucket, error) {
	from, to := s.lookback(days, DefaultWeekdayDays)
	activities, err := s.slice(ctx, username, from, to)
	if err != nil {
		return nil, err
	}
	return aggregate.WeekdayDistribution(activities), nil
}

// Productivity computes per-day scores over the last days (default 30).
func (s *Service) Productivity(ctx context.Context, username string, days int) ([]aggregate.ProductivityDay, error) {
	from, to := s.lookback(days, DefaultProductivityDays)
	activities, err := s.slice(ctx, username, from, to)
	if err != nil {
		return nil, err
	}
	return aggregate.Productivity(activities), nil
}

// Streak computes streak statistics. The scan window is always the
// trailing 365 days; there is no timeframe parameter.
func (s *Service) Streak(ctx context.Context, username string) (aggregate.StreakResult, error) {
	from, to := s.lookback(StreakDays, StreakDays)
	activities, err := s.slice(ctx, username, from, to)
	if err != nil {
		return aggregate.StreakResult{}, err
	}
	return aggregate.Streaks(activities, s.now()), nil
}

// Trends buckets the last days (default 90) by interval (default day).
func (s *Service) Trends(ctx context.Context, username string, interval aggregate.Interval, days int) ([]aggregate.TrendPoint, error) {
	if interval == "" {
		interval = aggregate.IntervalDay
	}
	if !interval.Valid() {
		return nil, &event.ValidationError{Fields: map[string]string{
			"interval": fmt.Sprintf("unrecognized interval %q", interval),
		}}
	}
	from, to := s.lookback(days, DefaultTrendDays)
	activities, err := s.slice(ctx, username, from, to)
	if err != nil {
		return nil, err
	}
	return aggregate.Trends(activities, interval), nil
}

// Activities lists raw persisted events, newest first.
func (s *Service) Activities(ctx context.Context, f store.ActivityFilter) ([]event.Activity, error) {
	if _, err := s.db.GetUser(ctx, f.Username); err != nil {
		return nil, err
	}
	return s.db.Activities(ctx, f)
}

// Delete removes a user's events in [from, to] (zero means unbounded) and
// returns the count removed.
func (s *Service) Delete(ctx context.Context, username string, from, to time.Time) (int64, error) {
	if _, err := s.db.GetUser(ctx, username); err != nil {
		return 0, err
	}
	return s.db.DeleteActivities(ctx, username, from, to)
}
