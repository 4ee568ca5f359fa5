package aggregate

import (
	"testing"
	"time"

	"github.com/blackwell-systems/codepulse/internal/event"
)

func mkActivity(t event.Type, ts time.Time, file, language string, changeSize int64) event.Activity {
	a := event.Activity{
		Username:  "alice",
		SessionID: "s1",
		Type:      t,
		Timestamp: ts,
		FileName:  file,
		Language:  language,
	}
	if changeSize > 0 {
		a.ChangeSize = &changeSize
	}
	return a
}

func day1(hour int) time.Time {
	return time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC)
}

func day2(hour int) time.Time {
	return time.Date(2024, 1, 2, hour, 0, 0, 0, time.UTC)
}

// twoDayFixture is the end-to-end scenario: 3 edits to a.js on day one,
// 1 save of b.py on day two.
func twoDayFixture() []event.Activity {
	return []event.Activity{
		mkActivity(event.TypeEdit, day1(10), "a.js", "javascript", 10),
		mkActivity(event.TypeEdit, day1(11), "a.js", "javascript", 20),
		mkActivity(event.TypeEdit, day1(12), "a.js", "javascript", 30),
		mkActivity(event.TypeSave, day2(9), "b.py", "python", 0),
	}
}

func TestSummarize_TwoDayScenario(t *testing.T) {
	s := Summarize(twoDayFixture())

	if s.TotalActivities != 4 {
		t.Errorf("totalActivities = %d, want 4", s.TotalActivities)
	}
	if s.EditActivities != 3 {
		t.Errorf("editActivities = %d, want 3", s.EditActivities)
	}
	if s.TotalChangeSize != 60 {
		t.Errorf("totalChangeSize = %d, want 60", s.TotalChangeSize)
	}
	if s.UniqueFiles != 2 {
		t.Errorf("uniqueFiles = %d, want 2", s.UniqueFiles)
	}
	if s.UniqueLanguages != 2 {
		t.Errorf("uniqueLanguages = %d, want 2", s.UniqueLanguages)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalActivities != 0 || s.ActiveHours != 0 {
		t.Errorf("empty slice should produce zero summary, got %+v", s)
	}
	if s.ActiveTime != "0h 0m" {
		t.Errorf("activeTime = %q, want 0h 0m", s.ActiveTime)
	}
}

func TestSummarize_ActiveTimeFormula(t *testing.T) {
	// The formula is max(1, round(total/60)) hours when total > 0.
	cases := []struct {
		total int
		hours int
	}{
		{1, 1},
		{29, 1},
		{30, 1},   // round(0.5) = 1
		{60, 1},
		{89, 1},   // round(1.48) = 1
		{90, 2},   // round(1.5) = 2
		{150, 3},  // round(2.5) = 3
		{6000, 100},
	}

	for _, tc := range cases {
		activities := make([]event.Activity, tc.total)
		for i := range activities {
			activities[i] = mkActivity(event.TypeFocus, day1(10), "f.go", "go", 0)
		}
		s := Summarize(activities)
		if s.ActiveHours != tc.hours {
			t.Errorf("total=%d: activeHours = %d, want %d", tc.total, s.ActiveHours, tc.hours)
		}
	}
}

func TestSummarize_MissingLanguageNotCounted(t *testing.T) {
	activities := []event.Activity{
		mkActivity(event.TypeEdit, day1(10), "a.txt", "", 5),
		mkActivity(event.TypeEdit, day1(11), "b.go", "go", 5),
	}
	s := Summarize(activities)
	if s.UniqueLanguages != 1 {
		t.Errorf("uniqueLanguages = %d, want 1 (empty language skipped)", s.UniqueLanguages)
	}
}

func TestSummarize_Idempotent(t *testing.T) {
	fixture := twoDayFixture()
	first := Summarize(fixture)
	second := Summarize(fixture)
	if first != second {
		t.Errorf("repeated summarize differs: %+v vs %+v", first, second)
	}
}

func TestSummarizeDaily(t *testing.T) {
	days := SummarizeDaily(twoDayFixture())

	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Date != "2024-01-01" || days[1].Date != "2024-01-02" {
		t.Errorf("days not sorted ascending: %s, %s", days[0].Date, days[1].Date)
	}
	if days[0].TotalCount != 3 {
		t.Errorf("day one totalCount = %d, want 3", days[0].TotalCount)
	}
	if len(days[0].Activities) != 1 || days[0].Activities[0].Type != "edit" || days[0].Activities[0].Count != 3 {
		t.Errorf("day one per-type counts wrong: %+v", days[0].Activities)
	}
	if days[1].TotalCount != 1 || days[1].Activities[0].Type != "save" {
		t.Errorf("day two per-type counts wrong: %+v", days[1].Activities)
	}
}
