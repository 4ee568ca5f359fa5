package query

import (
	"context"
	"testing"
	"time"

	"github.com/blackwell-systems/codepulse/internal/aggregate"
	"github.com/blackwell-systems/codepulse/internal/event"
	"github.com/blackwell-systems/codepulse/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedNow anchors every test query.
var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func testService(t *testing.T) (*Service, *store.DB) {
	t.Helper()
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.CreateUser(context.Background(), "alice"))
	return NewWithClock(db, func() time.Time { return fixedNow }), db
}

func seed(t *testing.T, db *store.DB, activities ...event.Activity) {
	t.Helper()
	require.NoError(t, db.InsertActivities(context.Background(), activities))
}

func act(ts time.Time, typ event.Type, file, lang string, changeSize int64) event.Activity {
	a := event.Activity{
		Username:  "alice",
		SessionID: "s1",
		Type:      typ,
		Timestamp: ts,
		FileName:  file,
		Language:  lang,
	}
	if changeSize > 0 {
		a.ChangeSize = &changeSize
	}
	return a
}

func TestSummary_DefaultsToToday(t *testing.T) {
	svc, db := testService(t)
	seed(t, db,
		act(fixedNow.Add(-time.Hour), event.TypeEdit, "a.go", "go", 10),
		// Yesterday: outside the day timeframe.
		act(fixedNow.AddDate(0, 0, -1), event.TypeEdit, "b.go", "go", 10),
	)

	s, err := svc.Summary(context.Background(), "alice", "")
	require.NoError(t, err)
	assert.Equal(t, 1, s.TotalActivities)

	s, err = svc.Summary(context.Background(), "alice", TimeframeWeek)
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalActivities)
}

func TestSummary_UnknownUser(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.Summary(context.Background(), "mallory", TimeframeDay)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestSummary_EndToEnd(t *testing.T) {
	svc, db := testService(t)
	seed(t, db,
		act(fixedNow.AddDate(0, 0, -2), event.TypeEdit, "a.js", "javascript", 10),
		act(fixedNow.AddDate(0, 0, -2), event.TypeEdit, "a.js", "javascript", 20),
		act(fixedNow.AddDate(0, 0, -2), event.TypeEdit, "a.js", "javascript", 30),
		act(fixedNow.AddDate(0, 0, -1), event.TypeSave, "b.py", "python", 0),
	)

	s, err := svc.Summary(context.Background(), "alice", TimeframeWeek)
	require.NoError(t, err)
	assert.Equal(t, 4, s.TotalActivities)
	assert.Equal(t, 3, s.EditActivities)
	assert.EqualValues(t, 60, s.TotalChangeSize)
	assert.Equal(t, 2, s.UniqueFiles)
	assert.Equal(t, 2, s.UniqueLanguages)

	groups, err := svc.Breakdown(context.Background(), "alice", aggregate.ByLanguage, 0)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "javascript", groups[0].Key)
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, 75, groups[0].Percentage)
	assert.Equal(t, "python", groups[1].Key)
	assert.Equal(t, 25, groups[1].Percentage)
}

func TestBreakdown_InvalidKind(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.Breakdown(context.Background(), "alice", "workspace", 0)
	var verr *event.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBreakdown_LookbackApplied(t *testing.T) {
	svc, db := testService(t)
	seed(t, db,
		act(fixedNow.AddDate(0, 0, -5), event.TypeEdit, "new.go", "go", 1),
		// 40 days ago: outside the default 30-day lookback.
		act(fixedNow.AddDate(0, 0, -40), event.TypeEdit, "old.rs", "rust", 1),
	)

	groups, err := svc.Breakdown(context.Background(), "alice", aggregate.ByLanguage, 0)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "go", groups[0].Key)

	groups, err = svc.Breakdown(context.Background(), "alice", aggregate.ByLanguage, 60)
	require.NoError(t, err)
	assert.Len(t, groups, 2)
}

func TestHourlyAndWeekday_AlwaysFullDistributions(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	hours, err := svc.Hourly(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Len(t, hours, 24)

	days, err := svc.Weekday(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Len(t, days, 7)
	assert.Equal(t, 1, days[0].DayOfWeek)
	assert.Equal(t, "Sunday", days[0].DayName)
}

func TestStreak_TrailingYearOnly(t *testing.T) {
	svc, db := testService(t)
	seed(t, db,
		act(fixedNow, event.TypeEdit, "a.go", "go", 1),
		act(fixedNow.AddDate(0, 0, -1), event.TypeEdit, "a.go", "go", 1),
		act(fixedNow.AddDate(0, 0, -2), event.TypeEdit, "a.go", "go", 1),
		// Before the 365-day window; must not contribute.
		act(fixedNow.AddDate(0, 0, -400), event.TypeEdit, "a.go", "go", 1),
	)

	r, err := svc.Streak(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, r.CurrentStreak)
	assert.Equal(t, 3, r.LongestStreak)
	assert.Equal(t, 3, r.TotalActiveDays)
}

func TestTrends_DefaultsAndValidation(t *testing.T) {
	svc, db := testService(t)
	seed(t, db, act(fixedNow.AddDate(0, 0, -3), event.TypeEdit, "a.go", "go", 1))
	ctx := context.Background()

	points, err := svc.Trends(ctx, "alice", "", 0)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, fixedNow.AddDate(0, 0, -3).Format("2006-01-02"), points[0].Interval)

	_, err = svc.Trends(ctx, "alice", "quarter", 0)
	var verr *event.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestQueriesAreIdempotent(t *testing.T) {
	svc, db := testService(t)
	seed(t, db,
		act(fixedNow.AddDate(0, 0, -1), event.TypeEdit, "a.go", "go", 7),
		act(fixedNow.AddDate(0, 0, -2), event.TypeSave, "b.go", "go", 0),
	)
	ctx := context.Background()

	p1, err := svc.Productivity(ctx, "alice", 0)
	require.NoError(t, err)
	p2, err := svc.Productivity(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)

	t1, err := svc.Trends(ctx, "alice", aggregate.IntervalWeek, 0)
	require.NoError(t, err)
	t2, err := svc.Trends(ctx, "alice", aggregate.IntervalWeek, 0)
	require.NoError(t, err)
	assert.Equal(t, t1, t2)
}

func TestDelete(t *testing.T) {
	svc, db := testService(t)
	seed(t, db,
		act(fixedNow.AddDate(0, 0, -1), event.TypeEdit, "a.go", "go", 1),
		act(fixedNow.AddDate(0, 0, -2), event.TypeEdit, "a.go", "go", 1),
	)
	ctx := context.Background()

	n, err := svc.Delete(ctx, "alice", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = svc.Delete(ctx, "mallory", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestDailySummary(t *testing.T) {
	svc, db := testService(t)
	seed(t, db,
		act(fixedNow.AddDate(0, 0, -1), event.TypeEdit, "a.go", "go", 1),
		act(fixedNow.AddDate(0, 0, -1), event.TypeSave, "a.go", "go", 0),
		// Outside the default 7-day summary window.
		act(fixedNow.AddDate(0, 0, -10), event.TypeEdit, "a.go", "go", 1),
	)

	days, err := svc.DailySummary(context.Background(), "alice", 0)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 2, days[0].TotalCount)
}
